package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flood-watch/internal/models"
)

func TestGetHelpRequests(t *testing.T) {
	app := newApp(newHandlers(t))

	code, body := do(t, app, http.MethodGet, "/api/requests", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]models.HelpRequest](t, body), 2)

	code, body = do(t, app, http.MethodGet, "/api/requests?district=Chennai&status=Pending", "")
	require.Equal(t, http.StatusOK, code)
	reqs := decode[[]models.HelpRequest](t, body)
	require.Len(t, reqs, 1)
	assert.Equal(t, "HR-1", reqs[0].ID)

	code, body = do(t, app, http.MethodGet, "/api/requests?status=In%20Progress", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]models.HelpRequest](t, body), 1)

	code, _ = do(t, app, http.MethodGet, "/api/requests?status=Done", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = do(t, app, http.MethodGet, "/api/requests?district=Unknown", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(body))
}

func TestPostRequestStatus(t *testing.T) {
	app := newApp(newHandlers(t))

	code, body := do(t, app, http.MethodPost, "/api/requests/HR-1/status", `{"status":"Completed"}`)
	require.Equal(t, http.StatusOK, code, string(body))
	assert.Equal(t, models.RequestCompleted, decode[models.HelpRequest](t, body).Status)

	code, _ = do(t, app, http.MethodPost, "/api/requests/HR-1/status", `{"status":"Rejected"}`)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = do(t, app, http.MethodPost, "/api/requests/HR-9/status", `{"status":"Completed"}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, app, http.MethodPost, "/api/requests/HR-2/status", `{"status":"Done"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, app, http.MethodPost, "/api/requests/HR-2/status", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = do(t, app, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), `"pending_requests":0`)
}

func TestTeamsAndCases(t *testing.T) {
	app := newApp(newHandlers(t))

	code, body := do(t, app, http.MethodGet, "/api/teams", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]models.Team](t, body), 2)

	code, body = do(t, app, http.MethodGet, "/api/cases?district=Chennai", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]models.EmergencyCase](t, body), 1)

	code, body = do(t, app, http.MethodGet, "/api/cases?district=Madurai", "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decode[[]models.EmergencyCase](t, body))
}

func TestPostAssignTeam(t *testing.T) {
	app := newApp(newHandlers(t))

	code, body := do(t, app, http.MethodPost, "/api/cases/EC-1/assign", `{"team_id":"T-1"}`)
	require.Equal(t, http.StatusOK, code, string(body))
	c := decode[models.EmergencyCase](t, body)
	assert.Equal(t, []string{"T-1"}, c.Teams)
	assert.Equal(t, 2, c.VolunteersAssigned)

	code, body = do(t, app, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), `"active_teams":1`)

	code, _ = do(t, app, http.MethodPost, "/api/cases/EC-1/assign", `{"team_id":"T-2"}`)
	assert.Equal(t, http.StatusConflict, code, "off-duty team")

	code, _ = do(t, app, http.MethodPost, "/api/cases/EC-7/assign", `{"team_id":"T-1"}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, app, http.MethodPost, "/api/cases/EC-1/assign", `{"team_id":"T-7"}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, app, http.MethodPost, "/api/cases/EC-1/assign", `{"team_id":"  "}`)
	assert.Equal(t, http.StatusBadRequest, code)
}
