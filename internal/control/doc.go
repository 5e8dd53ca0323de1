// Package control implements the geometric feedback controller that
// closes the loop around the dynamics integrator.
//
// [Geometric] cascades position/velocity errors into a desired
// acceleration, maps the acceleration to a desired attitude via
// cross-product frame construction (avoiding Euler-angle
// singularities), and turns the attitude error into a body-rate command
// with a closed-form thrust projection onto the current body z-axis.
//
// [Hover] is the trivial open-loop alternative: constant
// gravity-canceling thrust and zero rates. Any external policy can
// stand in for either, since actions are plain [dynamics.Action]
// values.
package control
