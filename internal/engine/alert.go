package engine

import (
	"fmt"

	"github.com/rshade/loandash/internal/loanapi"
)

// alertSubjects names what failed to load, keyed by endpoint.
//
//nolint:gochecknoglobals // Read-only lookup table.
var alertSubjects = map[string]string{
	loanapi.EndpointLoans:    "loan data",
	loanapi.EndpointPredict:  "prediction",
	loanapi.EndpointEvaluate: "model error metrics",
}

// AlertMessage returns the generic message shown to the user when a fetch from
// endpoint fails. Details of the failure are logged, never shown.
func AlertMessage(endpoint string) string {
	subject, ok := alertSubjects[endpoint]
	if !ok {
		subject = "data"
	}
	return fmt.Sprintf("Failed to fetch %s. Please check the backend server.", subject)
}
