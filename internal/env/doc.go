// Package env ties the dynamics integrator and the geometric
// controller into an episodic simulation session with the usual
// reinforcement-learning surface: Reset seeds a fresh state, Step
// consumes an action and yields (state, reward, terminated, info), and
// ComputeAction exposes the attached controller for callers that do
// not bring their own policy.
//
// Reward bookkeeping: negative distance from the world origin while
// running, a one-time terminal bonus of 1.0, and zero (with a logged
// advisory) for steps after termination. Note the running reward is
// origin-referenced, not setpoint-referenced, even when a non-zero
// setpoint is configured.
//
// An Env is single-threaded. Parallel rollouts hold independent Envs;
// no state crosses sessions.
package env
