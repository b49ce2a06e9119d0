// Package readiness provides a one-shot broadcast gate for environment
// startup.
//
// Script environments become usable asynchronously, and that startup can
// fail outright. Requests issued before the environment is ready queue
// behind a Gate instead of racing it: all waiters are released together on
// the single NotReady to Ready transition, or released with the recorded
// reason on permanent failure. Both transitions are terminal and first-wins.
package readiness
