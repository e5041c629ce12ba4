package http

import (
	"net/http"
	"strings"

	"tally/internal/core"
	"tally/internal/log"
)

// handleSetSalary stores the session salary. The salary only feeds the
// percent-of-income computation, so it must be strictly positive.
func (s *Server) handleSetSalary(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	salary, err := core.ParseAmount(strings.TrimSpace(r.Form.Get("salary")))
	if err != nil || !salary.IsPositive() {
		UnprocessableEntityError("Invalid salary: enter an amount greater than zero").Write(w)
		return
	}

	s.SetSalary(salary)
	log.FromContext(r.Context()).InfoContext(r.Context(), "Session salary set")
	NewHTMXResponse().
		TriggerSalaryChanged().
		TriggerSuccessNotification("Monthly salary set to " + core.FormatRand(salary)).
		BodyHTML(`<div class="success">Salary set for this session.</div>`).
		Write(w)
}

func (s *Server) handleClearSalary(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	s.ClearSalary()
	log.FromContext(r.Context()).InfoContext(r.Context(), "Session salary cleared")
	NewHTMXResponse().
		TriggerSalaryChanged().
		TriggerSuccessNotification("Monthly salary cleared").
		BodyHTML(`<div class="success">Salary cleared.</div>`).
		Write(w)
}
