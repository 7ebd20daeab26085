package edg

import "errors"

// ErrUnreducibleVertex is wrapped into the error Reducer.Succ returns when a
// vertex's formula doesn't match any rule in the ATL→EDG reduction — a
// well-formed Formula value should never trigger this, since every
// constructor in pkg/atlf produces one of the shapes Succ handles.
var ErrUnreducibleVertex = errors.New("edg: vertex formula matches no reduction rule")
