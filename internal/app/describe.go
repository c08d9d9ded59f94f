package app

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"process-resolver/internal/core"
)

// Describe resolves req.Input and gathers the hierarchy around the match.
func (s Service) Describe(resolver *core.Resolver, req DescribeRequest) (DescribeResult, error) {
	resolution := resolver.Resolve(req.Input)
	if !resolution.Resolved {
		return DescribeResult{Resolution: resolution}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("unresolved process identifier: %s", req.Input))
	}
	id := resolution.CanonicalID
	record, _ := resolver.GetRecord(id)
	code, _ := resolver.CategoryCode(id)
	return DescribeResult{
		Resolution:   resolution,
		Record:       record,
		CategoryCode: code,
		Ancestors:    resolver.Ancestors(id),
		Children:     resolver.Children(id),
	}, nil
}
