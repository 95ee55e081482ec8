// Package core defines the shared contracts of the pureloop runtime: the
// normalized Message delivered to update handlers, the Program shape
// (init + update table) applications implement, the Interpreter contract
// effect handlers satisfy, and the error taxonomy separating recoverable
// effect/decode failures from fatal wiring errors.
//
// Application logic built on these types is required to be synchronous and
// side-effect-free: init and update handlers never block, never perform I/O,
// and express every desired effect as a command.Task returned to the engine.
package core
