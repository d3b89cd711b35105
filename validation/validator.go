// Package validation implements the cascading consistency checks applied to
// an incident submission before anything is persisted: customer, then the
// fields whose validity depends on the chosen customer (site, location,
// model), the fault code/description pair, the site-scoped serial, and the
// start/end ordering. All failures are collected per field so a caller can
// redisplay the whole form at once.
package validation

import (
	"sort"
	"strings"
	"time"

	"github.com/muims-dev/muims/refdata"
)

// Errors maps field name to a single user-correctable message.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(f)
		b.WriteString(": ")
		b.WriteString(e[f])
	}
	return b.String()
}

// Submission is a candidate incident field set. Optional fields are empty
// strings or nil times and bypass their membership checks.
type Submission struct {
	Title            string
	CustomerName     string
	SiteName         string
	Location         string
	MachineModel     string
	MachineSerial    string
	FaultCode        string
	FaultDescription string
	StartTime        *time.Time
	EndTime          *time.Time
}

// Validate checks sub against the reference tables. On success the returned
// submission is fully consistent; when a valid serial is present its paired
// model replaces whatever model was submitted. On failure the errors carry
// one message per offending field and the submission must not be persisted.
func Validate(sub Submission, tables *refdata.Tables) (Submission, Errors) {
	errs := Errors{}

	if strings.TrimSpace(sub.Title) == "" {
		errs["title"] = "Title is required."
	}

	if sub.CustomerName == "" {
		errs["customer_name"] = "Customer is required."
	} else if !tables.KnownCustomer(sub.CustomerName) {
		errs["customer_name"] = "Invalid customer selection."
	}

	if sub.SiteName != "" && !contains(tables.SitesFor(sub.CustomerName), sub.SiteName) {
		errs["site_name"] = "Invalid site for selected customer."
	}

	if sub.Location != "" && !contains(tables.LocationsFor(sub.CustomerName), sub.Location) {
		errs["location"] = "Invalid location for selected customer."
	}

	if sub.MachineModel != "" && !contains(tables.ModelsFor(sub.CustomerName), sub.MachineModel) {
		errs["machine_model"] = "Invalid machine model for selected customer."
	}

	if sub.FaultCode != "" {
		expected, ok := tables.FaultDescription(sub.FaultCode)
		if !ok {
			errs["fault_code"] = "Unknown fault code."
		} else if sub.FaultDescription != "" && sub.FaultDescription != expected {
			errs["fault_description"] = "Fault description doesn't match the selected code."
		}
	}

	if sub.MachineSerial != "" {
		model, ok := tables.ModelForSerial(sub.SiteName, sub.MachineSerial)
		if !ok {
			errs["machine_serial"] = "Invalid serial for selected site."
		} else {
			// The serial is authoritative: force the model it is paired with.
			sub.MachineModel = model
		}
	}

	if sub.StartTime != nil && sub.EndTime != nil && sub.EndTime.Before(*sub.StartTime) {
		errs["end_time"] = "End time cannot be before start time."
	}

	if len(errs) > 0 {
		return sub, errs
	}
	return sub, nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
