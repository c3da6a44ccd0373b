package bind

import (
	"fmt"
	"strings"

	"github.com/funvibe/delegator/internal/typesystem"
)

// NoCandidateError indicates that no target could be bound to the source.
type NoCandidateError struct {
	Source *typesystem.Method
}

func (e *NoCandidateError) Error() string {
	return fmt.Sprintf("no target method can be bound to %s", e.Source)
}

func NewNoCandidateError(source *typesystem.Method) *NoCandidateError {
	return &NoCandidateError{Source: source}
}

// AmbiguousDelegationError indicates that several targets remain equally good.
type AmbiguousDelegationError struct {
	Source     *typesystem.Method
	Candidates []*typesystem.Method
}

func (e *AmbiguousDelegationError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		names[i] = c.String()
	}
	return fmt.Sprintf("ambiguous delegation of %s: %s", e.Source, strings.Join(names, ", "))
}

func NewAmbiguousDelegationError(source *typesystem.Method, candidates []*typesystem.Method) *AmbiguousDelegationError {
	return &AmbiguousDelegationError{Source: source, Candidates: candidates}
}
