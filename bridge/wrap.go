package bridge

import (
	"encoding/json"
	"fmt"

	scriptbridge "github.com/wippyai/script-bridge"
)

// wrapScript embeds the caller's snippet in a reporting harness. The snippet
// is JSON-quoted and evaluated so its completion value becomes the result,
// and the correlation id is a parameter of the harness, so concurrent
// evaluations can never share a tag. A thrown error posts its message text;
// everything else posts the value. A snippet that posts nothing (because the
// harness itself never ran) is caught by the evaluation deadline, not here.
func wrapScript(id, script string) string {
	// json.Marshal of a string cannot fail.
	quotedScript, _ := json.Marshal(script)
	quotedID, _ := json.Marshal(id)

	return fmt.Sprintf(`(function (__id) {
	try {
		var __value = eval(%s);
		%s({ id: __id, value: __value });
	} catch (__err) {
		%s({ id: __id, error: String(__err && __err.message !== undefined ? __err.message : __err) });
	}
})(%s);`, quotedScript, scriptbridge.PostHook, scriptbridge.PostHook, quotedID)
}
