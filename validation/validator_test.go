package validation

import (
	"testing"
	"time"

	"github.com/muims-dev/muims/refdata"
	"github.com/stretchr/testify/assert"
)

func testTables() *refdata.Tables {
	return &refdata.Tables{
		Customers: []string{"VLTX", "Bol"},
		Sites: map[string][]string{
			"VLTX": {"Birmingham", "Bristol"},
			"Bol":  {"Belfast"},
		},
		Locations: map[string][]string{
			"VLTX": {"United Kingdom"},
			"Bol":  {"United Kingdom"},
		},
		Models: map[string][]string{
			"VLTX": {"7000", "V-Series"},
			"Bol":  {"7000"},
		},
		SiteSerials: map[string][]refdata.SerialModel{
			"Birmingham": {
				{Serial: "BIRM27", Model: "7000"},
				{Serial: "BIRMV01", Model: "V-Series"},
			},
			"Bristol": {
				{Serial: "BRIS28", Model: "7000"},
			},
		},
		FaultCodes: map[string]string{
			"1M": "Feedscan Module Mechanical",
			"5E": "System Electrical",
		},
	}
}

func TestValidate_FullyConsistentSubmission(t *testing.T) {
	sub := Submission{
		Title:            "Belt jam",
		CustomerName:     "VLTX",
		SiteName:         "Birmingham",
		Location:         "United Kingdom",
		MachineModel:     "7000",
		MachineSerial:    "BIRM27",
		FaultCode:        "1M",
		FaultDescription: "Feedscan Module Mechanical",
	}

	out, errs := Validate(sub, testTables())

	assert.Nil(t, errs)
	assert.Equal(t, "7000", out.MachineModel)
}

func TestValidate_TitleAndCustomerRequired(t *testing.T) {
	_, errs := Validate(Submission{}, testTables())

	assert.NotNil(t, errs)
	assert.Contains(t, errs, "title")
	assert.Contains(t, errs, "customer_name")
}

func TestValidate_UnknownCustomer(t *testing.T) {
	_, errs := Validate(Submission{Title: "x", CustomerName: "Nobody"}, testTables())

	assert.Contains(t, errs, "customer_name")
}

func TestValidate_SiteMustBelongToCustomer(t *testing.T) {
	sub := Submission{Title: "x", CustomerName: "Bol", SiteName: "Birmingham"}

	_, errs := Validate(sub, testTables())

	assert.Contains(t, errs, "site_name")
}

func TestValidate_LocationAndModelMembership(t *testing.T) {
	sub := Submission{
		Title:        "x",
		CustomerName: "Bol",
		Location:     "Oman",
		MachineModel: "V-Series",
	}

	_, errs := Validate(sub, testTables())

	assert.Contains(t, errs, "location")
	assert.Contains(t, errs, "machine_model")
}

func TestValidate_UnknownFaultCode(t *testing.T) {
	sub := Submission{Title: "x", CustomerName: "VLTX", FaultCode: "ZZ9"}

	_, errs := Validate(sub, testTables())

	assert.Contains(t, errs, "fault_code")
}

func TestValidate_FaultDescriptionMustMatchCode(t *testing.T) {
	sub := Submission{
		Title:            "x",
		CustomerName:     "VLTX",
		FaultCode:        "1M",
		FaultDescription: "System Electrical",
	}

	_, errs := Validate(sub, testTables())

	assert.Contains(t, errs, "fault_description")
}

func TestValidate_FaultCodeWithoutDescriptionIsFine(t *testing.T) {
	sub := Submission{Title: "x", CustomerName: "VLTX", FaultCode: "1M"}

	_, errs := Validate(sub, testTables())

	assert.Nil(t, errs)
}

func TestValidate_SerialForcesPairedModel(t *testing.T) {
	// The user picked a model that is valid for the customer, but the
	// serial is registered against a different one.
	sub := Submission{
		Title:         "x",
		CustomerName:  "VLTX",
		SiteName:      "Birmingham",
		MachineModel:  "7000",
		MachineSerial: "BIRMV01",
	}

	out, errs := Validate(sub, testTables())

	assert.Nil(t, errs)
	assert.Equal(t, "V-Series", out.MachineModel)
}

func TestValidate_SerialMustBelongToSite(t *testing.T) {
	sub := Submission{
		Title:         "x",
		CustomerName:  "VLTX",
		SiteName:      "Bristol",
		MachineSerial: "BIRM27",
	}

	_, errs := Validate(sub, testTables())

	assert.Contains(t, errs, "machine_serial")
}

func TestValidate_EndBeforeStart(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(-time.Minute)
	sub := Submission{
		Title:        "x",
		CustomerName: "VLTX",
		StartTime:    &start,
		EndTime:      &end,
	}

	_, errs := Validate(sub, testTables())

	assert.Contains(t, errs, "end_time")
}

func TestValidate_OptionalFieldsBypassMembership(t *testing.T) {
	sub := Submission{Title: "x", CustomerName: "Bol"}

	_, errs := Validate(sub, testTables())

	assert.Nil(t, errs)
}

func TestValidate_CollectsAllFieldErrors(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	sub := Submission{
		Title:            "x",
		CustomerName:     "VLTX",
		SiteName:         "Belfast",
		Location:         "Oman",
		FaultCode:        "1M",
		FaultDescription: "wrong",
		StartTime:        &start,
		EndTime:          &end,
	}

	_, errs := Validate(sub, testTables())

	assert.Len(t, errs, 4)
	assert.Contains(t, errs, "site_name")
	assert.Contains(t, errs, "location")
	assert.Contains(t, errs, "fault_description")
	assert.Contains(t, errs, "end_time")
}

func TestErrors_ErrorStringIsStable(t *testing.T) {
	errs := Errors{"b_field": "bad", "a_field": "worse"}

	assert.Equal(t, "a_field: worse; b_field: bad", errs.Error())
}
