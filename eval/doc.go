// Package eval expands $[...] expressions in tool execution code.
//
// Expressions are expr-lang programs run against an Env. In generated
// workflow scripts the environment binds inputs, outputs, tool and step.
package eval
