package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/muims-dev/muims/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListParts_SortedByName(t *testing.T) {
	resetTables(t)

	for _, name := range []string{"Green Belt", "Card Cage", "Feed Roller"} {
		require.NoError(t, gormDB.Create(&models.Part{Name: name}).Error)
	}

	w := doRequest(t, http.MethodGet, "/parts", nil, http.StatusOK)

	var resp struct {
		Data []struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 3)
	assert.Equal(t, "Card Cage", resp.Data[0].Name)
	assert.Equal(t, "Feed Roller", resp.Data[1].Name)
	assert.Equal(t, "Green Belt", resp.Data[2].Name)
}

func TestCreateIncident_WithParts(t *testing.T) {
	resetTables(t)

	part := models.Part{Name: "Feed Roller"}
	require.NoError(t, gormDB.Create(&part).Error)

	id := createIncidentForTests(t, map[string]interface{}{
		"part_ids": []uint{part.ID},
	})

	w := doRequest(t, http.MethodGet, fmt.Sprintf("/incidents/%d", id), nil, http.StatusOK)

	var resp struct {
		Data struct {
			Parts []struct {
				Name string `json:"name"`
			} `json:"parts"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Parts, 1)
	assert.Equal(t, "Feed Roller", resp.Data.Parts[0].Name)
}
