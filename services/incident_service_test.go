package services

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/muims-dev/muims/dto"
	"github.com/muims-dev/muims/models"
	"github.com/muims-dev/muims/refdata"
	"github.com/muims-dev/muims/repositories"
	"github.com/muims-dev/muims/repositories/mock_repositories"
	"github.com/muims-dev/muims/utils"
	"github.com/muims-dev/muims/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func serviceTestTables() *refdata.Tables {
	return &refdata.Tables{
		Customers: []string{"VLTX", "Bol"},
		Sites: map[string][]string{
			"VLTX": {"Birmingham"},
			"Bol":  {"Belfast"},
		},
		Locations: map[string][]string{
			"VLTX": {"United Kingdom"},
		},
		Models: map[string][]string{
			"VLTX": {"7000", "V-Series"},
		},
		SiteSerials: map[string][]refdata.SerialModel{
			"Birmingham": {
				{Serial: "BIRM27", Model: "7000"},
				{Serial: "BIRMV01", Model: "V-Series"},
			},
		},
		FaultCodes: map[string]string{
			"1M": "Feedscan Module Mechanical",
		},
	}
}

func setupIncidentMocks(t *testing.T) (*IncidentService,
	*mock_repositories.MockIncidentRepo,
	*mock_repositories.MockPartRepo,
	*mock_repositories.MockAuditRepo,
	*gin.Context) {

	ctrl := gomock.NewController(t)
	t.Cleanup(func() { ctrl.Finish() })

	mockIncident := mock_repositories.NewMockIncidentRepo(ctrl)
	mockPart := mock_repositories.NewMockPartRepo(ctrl)
	mockAudit := mock_repositories.NewMockAuditRepo(ctrl)

	repos := &repositories.Repos{
		Incident: mockIncident,
		Part:     mockPart,
		Audit:    mockAudit,
	}

	service := NewIncidentService(repos, serviceTestTables())
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())

	// override utils
	utils.LogAuditWithConsole = func(ctx *gin.Context, action, resourceType, resourceID string,
		oldData, newData interface{}, msg string, repo repositories.AuditRepo) {
	}

	return service, mockIncident, mockPart, mockAudit, ctx
}

//
// --- TESTS ---
//

// ---------- CreateIncident ----------

func TestCreateIncident_Success(t *testing.T) {
	svc, incidentRepo, _, _, ctx := setupIncidentMocks(t)

	var stored *models.Incident
	incidentRepo.EXPECT().Create(gomock.Any()).DoAndReturn(func(i *models.Incident) error {
		stored = i
		return nil
	})

	input := dto.IncidentInputDTO{
		Title:        "Belt jam",
		CustomerName: "VLTX",
		SiteName:     "Birmingham",
	}

	incident, err := svc.CreateIncident(ctx, input)

	assert.NoError(t, err)
	assert.Equal(t, stored, incident)
	assert.Equal(t, models.IncidentStatusOpen, incident.Status)
	assert.Equal(t, models.IncidentSeverityMedium, incident.Severity)
	assert.Equal(t, models.IncidentCategoryMechanical, incident.Category)
}

func TestCreateIncident_SerialForcesModel(t *testing.T) {
	svc, incidentRepo, _, _, ctx := setupIncidentMocks(t)

	incidentRepo.EXPECT().Create(gomock.Any()).Return(nil)

	input := dto.IncidentInputDTO{
		Title:         "Wrong model submitted",
		CustomerName:  "VLTX",
		SiteName:      "Birmingham",
		MachineModel:  "7000",
		MachineSerial: "BIRMV01",
	}

	incident, err := svc.CreateIncident(ctx, input)

	assert.NoError(t, err)
	assert.Equal(t, "V-Series", incident.MachineModel)
}

func TestCreateIncident_ValidationFailure_NothingPersisted(t *testing.T) {
	svc, _, _, _, ctx := setupIncidentMocks(t)

	// No Create expectation: any repository write would fail the test.
	input := dto.IncidentInputDTO{
		Title:            "Mismatch",
		CustomerName:     "VLTX",
		FaultCode:        "1M",
		FaultDescription: "Something else entirely",
	}

	incident, err := svc.CreateIncident(ctx, input)

	assert.Nil(t, incident)
	var fieldErrs validation.Errors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "fault_description")
}

func TestCreateIncident_EndBeforeStart_NothingPersisted(t *testing.T) {
	svc, _, _, _, ctx := setupIncidentMocks(t)

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	input := dto.IncidentInputDTO{
		Title:        "Bad interval",
		CustomerName: "VLTX",
		StartTime:    &start,
		EndTime:      &end,
	}

	incident, err := svc.CreateIncident(ctx, input)

	assert.Nil(t, incident)
	var fieldErrs validation.Errors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "end_time")
}

func TestCreateIncident_InvalidEnumValues(t *testing.T) {
	svc, _, _, _, ctx := setupIncidentMocks(t)

	input := dto.IncidentInputDTO{
		Title:        "Bad enums",
		CustomerName: "VLTX",
		Severity:     "Extreme",
		Status:       "Closed",
		Category:     "plumbing",
	}

	_, err := svc.CreateIncident(ctx, input)

	var fieldErrs validation.Errors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "severity")
	assert.Contains(t, fieldErrs, "status")
	assert.Contains(t, fieldErrs, "category")
}

func TestCreateIncident_AttachesParts(t *testing.T) {
	svc, incidentRepo, partRepo, _, ctx := setupIncidentMocks(t)

	parts := []models.Part{{ID: 1, Name: "Gear Motor"}, {ID: 2, Name: "Green Belt"}}
	partRepo.EXPECT().FindByIDs([]uint{1, 2}).Return(parts, nil)
	incidentRepo.EXPECT().Create(gomock.Any()).Return(nil)

	input := dto.IncidentInputDTO{
		Title:        "With parts",
		CustomerName: "VLTX",
		PartIDs:      []uint{1, 2},
	}

	incident, err := svc.CreateIncident(ctx, input)

	assert.NoError(t, err)
	assert.Equal(t, parts, incident.Parts)
}

// ---------- UpdateIncident ----------

func TestUpdateIncident_NotFound(t *testing.T) {
	svc, incidentRepo, _, _, ctx := setupIncidentMocks(t)

	incidentRepo.EXPECT().FindByID(uint(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.UpdateIncident(ctx, 99, dto.IncidentInputDTO{Title: "x", CustomerName: "VLTX"})

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateIncident_RevalidatesLikeCreation(t *testing.T) {
	svc, incidentRepo, _, _, ctx := setupIncidentMocks(t)

	existing := &models.Incident{Title: "Old", CustomerName: "VLTX"}
	incidentRepo.EXPECT().FindByID(uint(1)).Return(existing, nil)
	// No Update expectation: the invalid edit must not be applied.

	input := dto.IncidentInputDTO{
		Title:        "New",
		CustomerName: "Bol",
		SiteName:     "Birmingham",
	}

	_, err := svc.UpdateIncident(ctx, 1, input)

	var fieldErrs validation.Errors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "site_name")
}

func TestUpdateIncident_Success(t *testing.T) {
	svc, incidentRepo, _, _, ctx := setupIncidentMocks(t)

	existing := &models.Incident{Title: "Old", CustomerName: "VLTX", Status: models.IncidentStatusOpen}
	incidentRepo.EXPECT().FindByID(uint(1)).Return(existing, nil)
	incidentRepo.EXPECT().Update(gomock.Any()).Return(nil)

	input := dto.IncidentInputDTO{
		Title:        "New title",
		CustomerName: "VLTX",
		SiteName:     "Birmingham",
		Status:       "Resolved",
	}

	incident, err := svc.UpdateIncident(ctx, 1, input)

	assert.NoError(t, err)
	assert.Equal(t, "New title", incident.Title)
	assert.Equal(t, models.IncidentStatusResolved, incident.Status)
}

// ---------- SetStatus ----------

func TestSetStatus_Success(t *testing.T) {
	svc, incidentRepo, _, _, ctx := setupIncidentMocks(t)

	existing := &models.Incident{Status: models.IncidentStatusOpen}
	incidentRepo.EXPECT().FindByID(uint(1)).Return(existing, nil)
	incidentRepo.EXPECT().Update(gomock.Any()).Return(nil)

	incident, err := svc.SetStatus(ctx, 1, "In Progress")

	assert.NoError(t, err)
	assert.Equal(t, models.IncidentStatusInProgress, incident.Status)
}

func TestSetStatus_ResolvedCanBeReverted(t *testing.T) {
	svc, incidentRepo, _, _, ctx := setupIncidentMocks(t)

	existing := &models.Incident{Status: models.IncidentStatusResolved}
	incidentRepo.EXPECT().FindByID(uint(1)).Return(existing, nil)
	incidentRepo.EXPECT().Update(gomock.Any()).Return(nil)

	incident, err := svc.SetStatus(ctx, 1, "Open")

	assert.NoError(t, err)
	assert.Equal(t, models.IncidentStatusOpen, incident.Status)
}

func TestSetStatus_InvalidValue(t *testing.T) {
	svc, _, _, _, ctx := setupIncidentMocks(t)

	_, err := svc.SetStatus(ctx, 1, "Closed")

	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestSetStatus_NotFound(t *testing.T) {
	svc, incidentRepo, _, _, ctx := setupIncidentMocks(t)

	incidentRepo.EXPECT().FindByID(uint(42)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.SetStatus(ctx, 42, "Resolved")

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

// ---------- ListIncidents ----------

func TestListIncidents_InvalidSeverityIgnored(t *testing.T) {
	svc, incidentRepo, _, _, _ := setupIncidentMocks(t)

	var seen repositories.IncidentCriteria
	incidentRepo.EXPECT().List(gomock.Any(), 1, 10).DoAndReturn(
		func(criteria repositories.IncidentCriteria, page, perPage int) ([]models.Incident, int64, error) {
			seen = criteria
			return nil, 0, nil
		})

	_, _, err := svc.ListIncidents(
		dto.IncidentFilterDTO{Severity: "Extreme"},
		dto.PaginationDTO{Page: 1, PerPage: 10},
	)

	assert.NoError(t, err)
	assert.Empty(t, seen.Severity)
}

func TestListIncidents_ValidSeverityApplied(t *testing.T) {
	svc, incidentRepo, _, _, _ := setupIncidentMocks(t)

	incidentRepo.EXPECT().
		List(repositories.IncidentCriteria{Severity: "High"}, 1, 10).
		Return(nil, int64(0), nil)

	_, _, err := svc.ListIncidents(
		dto.IncidentFilterDTO{Severity: "High"},
		dto.PaginationDTO{Page: 1, PerPage: 10},
	)

	assert.NoError(t, err)
}

func TestListIncidents_MalformedDatesIgnored(t *testing.T) {
	svc, incidentRepo, _, _, _ := setupIncidentMocks(t)

	incidentRepo.EXPECT().
		List(repositories.IncidentCriteria{}, 1, 10).
		Return(nil, int64(0), nil)

	_, _, err := svc.ListIncidents(
		dto.IncidentFilterDTO{DateFrom: "not-a-date", DateTo: "2024-13-45"},
		dto.PaginationDTO{Page: 1, PerPage: 10},
	)

	assert.NoError(t, err)
}

func TestListIncidents_ParsesDateBounds(t *testing.T) {
	svc, incidentRepo, _, _, _ := setupIncidentMocks(t)

	var seen repositories.IncidentCriteria
	incidentRepo.EXPECT().List(gomock.Any(), 1, 10).DoAndReturn(
		func(criteria repositories.IncidentCriteria, page, perPage int) ([]models.Incident, int64, error) {
			seen = criteria
			return nil, 0, nil
		})

	_, _, err := svc.ListIncidents(
		dto.IncidentFilterDTO{DateFrom: "2024-03-01T08:30", DateTo: "2024-03-02"},
		dto.PaginationDTO{Page: 1, PerPage: 10},
	)

	assert.NoError(t, err)
	require.NotNil(t, seen.CreatedFrom)
	require.NotNil(t, seen.CreatedTo)
	assert.Equal(t, time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC), *seen.CreatedFrom)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), *seen.CreatedTo)
}

func TestListIncidents_DefaultsPagination(t *testing.T) {
	svc, incidentRepo, _, _, _ := setupIncidentMocks(t)

	incidentRepo.EXPECT().
		List(repositories.IncidentCriteria{}, 1, 10).
		Return(nil, int64(0), nil)

	_, _, err := svc.ListIncidents(dto.IncidentFilterDTO{}, dto.PaginationDTO{Page: 0, PerPage: -5})

	assert.NoError(t, err)
}

// ---------- ExportIncidents ----------

func TestExportIncidents_CSVShape(t *testing.T) {
	svc, incidentRepo, _, _, _ := setupIncidentMocks(t)

	created := time.Date(2024, 3, 1, 9, 15, 30, 0, time.UTC)
	incidents := []models.Incident{
		{
			Model:         gorm.Model{ID: 2, CreatedAt: created.Add(time.Hour)},
			Title:         "Second, with comma",
			CustomerName:  "VLTX",
			Severity:      models.IncidentSeverityHigh,
			Status:        models.IncidentStatusOpen,
			SiteName:      "Birmingham",
			MachineModel:  "7000",
			MachineSerial: "BIRM27",
			FaultCode:     "1M",
		},
		{
			Model:        gorm.Model{ID: 1, CreatedAt: created},
			Title:        "First",
			CustomerName: "Bol",
			Severity:     models.IncidentSeverityLow,
			Status:       models.IncidentStatusResolved,
		},
	}
	incidentRepo.EXPECT().ListAll(repositories.IncidentCriteria{}).Return(incidents, nil)

	blob, err := svc.ExportIncidents(dto.IncidentFilterDTO{})

	assert.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(blob), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Title,Customer,Severity,Status,Created At,Site,Model,Serial,Fault Code", lines[0])
	assert.Equal(t, `2,"Second, with comma",VLTX,High,Open,2024-03-01 10:15:30,Birmingham,7000,BIRM27,1M`, lines[1])
	// Absent optional fields serialize as empty strings.
	assert.Equal(t, "1,First,Bol,Low,Resolved,2024-03-01 09:15:30,,,,", lines[2])
}

// ---------- GetStats ----------

func TestGetStats(t *testing.T) {
	svc, incidentRepo, _, _, _ := setupIncidentMocks(t)

	recent := []models.Incident{{Title: "Latest"}}
	incidentRepo.EXPECT().Count().Return(int64(12), nil)
	incidentRepo.EXPECT().CountByStatus(models.IncidentStatusOpen).Return(int64(4), nil)
	incidentRepo.EXPECT().CountBySeverity(models.IncidentSeverityHigh).Return(int64(2), nil)
	incidentRepo.EXPECT().Recent(5).Return(recent, nil)

	stats, err := svc.GetStats()

	assert.NoError(t, err)
	assert.Equal(t, int64(12), stats.Total)
	assert.Equal(t, int64(4), stats.Open)
	assert.Equal(t, int64(2), stats.HighSeverity)
	assert.Equal(t, recent, stats.Recent)
}

// ---------- AllowedChoices ----------

func TestAllowedChoices_PinsDescriptionToCode(t *testing.T) {
	svc, _, _, _, _ := setupIncidentMocks(t)

	choices := svc.AllowedChoices("VLTX", "Birmingham", "1M")

	assert.Equal(t, []string{"Birmingham"}, choices.Sites)
	assert.Equal(t, []string{"BIRM27", "BIRMV01"}, choices.Serials)
	assert.Equal(t, []string{"Feedscan Module Mechanical"}, choices.FaultDescriptions)
}
