package compiler

import "fmt"

// UnknownIdentifierError is CompilerError::UnknownIdentifier(name).
type UnknownIdentifierError struct{ Name string }

func (e *UnknownIdentifierError) Error() string { return fmt.Sprintf("unknown identifier: %s", e.Name) }

// ClassNameAlreadyDeclaredError is CompilerError::ClassNameAlreadyDeclared(name).
type ClassNameAlreadyDeclaredError struct{ Name string }

func (e *ClassNameAlreadyDeclaredError) Error() string {
	return fmt.Sprintf("class already declared in this scope: %s", e.Name)
}

// InvalidLeftSideAssignmentError is CompilerError::InvalidLeftSideAssignment.
type InvalidLeftSideAssignmentError struct{}

func (e *InvalidLeftSideAssignmentError) Error() string { return "invalid left side of assignment" }
