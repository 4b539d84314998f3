package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jonathan/cv-builder/internal/export"
	"github.com/jonathan/cv-builder/internal/types"
	"github.com/jonathan/cv-builder/internal/validation"
)

func validExperience() types.Experience {
	return types.Experience{
		Company:   "Acme",
		Position:  "Engineer",
		StartDate: "2020-01-01",
	}
}

func validEducation() types.Education {
	return types.Education{
		Institution:    "Universidad Nacional",
		Degree:         "Ingeniería",
		GraduationYear: "2019",
	}
}

func TestGetDocument_Empty(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/cv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"personal_info": {"full_name": "", "email": "", "phone": "", "location": "", "summary": ""},
		"experiences": [],
		"education": [],
		"skills": []
	}`, w.Body.String())
}

func TestUpdatePersonalInfo(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPut, "/cv/personal-info", types.PersonalInfo{
		FullName: "Ana Pérez",
		Email:    "ana@example.com",
		Phone:    "5551234567",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	doc := s.store.Snapshot()
	assert.Equal(t, "Ana Pérez", doc.PersonalInfo.FullName)
	assert.Equal(t, "5551234567", doc.PersonalInfo.Phone)
}

func TestUpdatePersonalInfo_ValidationFailure(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPut, "/cv/personal-info", types.PersonalInfo{Email: "not-an-email", Phone: "12"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeBody[struct {
		Error  string                  `json:"error"`
		Fields []validation.FieldError `json:"fields"`
	}](t, w)
	var fields []string
	for _, f := range resp.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"full_name", "email", "phone"}, fields)

	assert.Empty(t, s.store.Snapshot().PersonalInfo.Email, "store untouched")
}

func TestUpdatePersonalInfo_InvalidJSON(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPut, "/cv/personal-info", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody[map[string]string](t, w)["error"], "invalid request body")
}

func TestExperienceLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/cv/experiences", validExperience())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeBody[types.Experience](t, w)
	assert.Equal(t, "id-1", created.ID, "server assigns an id when omitted")

	withID := validExperience()
	withID.ID = "client-id"
	withID.Company = "Globex"
	w = s.do(t, http.MethodPost, "/cv/experiences", withID)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "client-id", decodeBody[types.Experience](t, w).ID)

	update := validExperience()
	update.ID = "ignored"
	update.EndDate = "2022-06-30"
	w = s.do(t, http.MethodPut, "/cv/experiences/id-1", update)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "id-1", decodeBody[types.Experience](t, w).ID)

	doc := s.store.Snapshot()
	require.Len(t, doc.Experiences, 2)
	assert.Equal(t, "id-1", doc.Experiences[0].ID)
	assert.Equal(t, "2022-06-30", doc.Experiences[0].EndDate)
	assert.Equal(t, "client-id", doc.Experiences[1].ID)

	w = s.do(t, http.MethodDelete, "/cv/experiences/id-1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	doc = s.store.Snapshot()
	require.Len(t, doc.Experiences, 1)
	assert.Equal(t, "Globex", doc.Experiences[0].Company)
}

func TestCreateExperience_DuplicateID(t *testing.T) {
	s := newTestServer(t)

	exp := validExperience()
	exp.ID = "x"
	w := s.do(t, http.MethodPost, "/cv/experiences", exp)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	exp.Company = "Globex"
	w = s.do(t, http.MethodPost, "/cv/experiences", exp)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "experience already exists: x")

	doc := s.store.Snapshot()
	require.Len(t, doc.Experiences, 1)
	assert.Equal(t, "Acme", doc.Experiences[0].Company)

	w = s.do(t, http.MethodDelete, "/cv/experiences/x", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, s.store.Snapshot().Experiences)
}

func TestCreateExperience_GeneratedIDSkipsTaken(t *testing.T) {
	s := newTestServer(t)

	taken := validExperience()
	taken.ID = "id-1"
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/cv/experiences", taken).Code)

	w := s.do(t, http.MethodPost, "/cv/experiences", validExperience())
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "id-2", decodeBody[types.Experience](t, w).ID)
}

func TestExperience_NotFound(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/cv/experiences", validExperience())

	w := s.do(t, http.MethodPut, "/cv/experiences/missing", validExperience())
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodDelete, "/cv/experiences/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "experience not found: missing", decodeBody[map[string]string](t, w)["error"])

	assert.Len(t, s.store.Snapshot().Experiences, 1)
}

func TestCreateExperience_EndBeforeStart(t *testing.T) {
	s := newTestServer(t)

	exp := validExperience()
	exp.EndDate = "2019-01-01"
	w := s.do(t, http.MethodPost, "/cv/experiences", exp)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, s.store.Snapshot().Experiences)
}

func TestEducationLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/cv/education", validEducation())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "id-1", decodeBody[types.Education](t, w).ID)

	update := validEducation()
	update.Field = "Sistemas"
	w = s.do(t, http.MethodPut, "/cv/education/id-1", update)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Sistemas", s.store.Snapshot().Education[0].Field)

	w = s.do(t, http.MethodPut, "/cv/education/nope", update)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodDelete, "/cv/education/id-1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, s.store.Snapshot().Education)

	w = s.do(t, http.MethodDelete, "/cv/education/id-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateEducation_DuplicateID(t *testing.T) {
	s := newTestServer(t)

	edu := validEducation()
	edu.ID = "uni"
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/cv/education", edu).Code)

	w := s.do(t, http.MethodPost, "/cv/education", edu)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Len(t, s.store.Snapshot().Education, 1)
}

func TestCreateEducation_RejectsDigits(t *testing.T) {
	s := newTestServer(t)

	edu := validEducation()
	edu.Degree = "BSc 2"
	w := s.do(t, http.MethodPost, "/cv/education", edu)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSkillLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/cv/skills", SkillRequest{Name: "Go", Level: types.SkillLevelAdvanced})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"id": "id-1", "name": "Go", "level": "Advanced"}`, w.Body.String())

	w = s.do(t, http.MethodPut, "/cv/skills/id-1", `{"name": "Golang", "level": "Expert"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []types.Skill{{ID: "id-1", Name: "Golang", Level: types.SkillLevelExpert}}, s.store.Snapshot().Skills)

	w = s.do(t, http.MethodPut, "/cv/skills/zzz", `{"name": "Rust", "level": "Basic"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodDelete, "/cv/skills/id-1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, s.store.Snapshot().Skills)
}

func TestSkill_TrimsName(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/cv/skills", `{"name": "  Go  ", "level": "Basic"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Go", decodeBody[types.Skill](t, w).Name)

	w = s.do(t, http.MethodPut, "/cv/skills/id-1", `{"name": "\tGolang ", "level": "Expert"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Golang", decodeBody[types.Skill](t, w).Name)

	assert.Equal(t, []types.Skill{{ID: "id-1", Name: "Golang", Level: types.SkillLevelExpert}}, s.store.Snapshot().Skills)
}

func TestCreateSkill_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown level", body: `{"name": "Go", "level": "Guru"}`},
		{name: "missing level", body: `{"name": "Go"}`},
		{name: "blank name", body: `{"name": "   ", "level": "Basic"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			w := s.do(t, http.MethodPost, "/cv/skills", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, s.store.Snapshot().Skills)
		})
	}
}

func TestDeleteSkill_PathValue(t *testing.T) {
	s := newTestServer(t)
	skill := s.store.AddSkill("Go", types.SkillLevelBasic)

	req := httptest.NewRequest(http.MethodDelete, "/cv/skills/"+skill.ID, nil)
	req.SetPathValue("id", skill.ID)
	w := httptest.NewRecorder()
	s.handleDeleteSkill(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestStatusEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPut, "/cv/personal-info", types.PersonalInfo{FullName: "Ana", Email: "ana@example.com"})
	s.do(t, http.MethodPost, "/cv/skills", SkillRequest{Name: "Go", Level: types.SkillLevelBasic})
	s.do(t, http.MethodPost, "/cv/skills", SkillRequest{Name: "SQL", Level: types.SkillLevelIntermediate})

	w := s.do(t, http.MethodGet, "/cv/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, types.Completion{PersonalInfoComplete: true, SkillCount: 2}, decodeBody[types.Completion](t, w))
}

func TestReplaceDocument(t *testing.T) {
	s := newTestServer(t)

	body := `{
		"personal_info": {"full_name": "Ana", "email": "ana@example.com"},
		"experiences": [{"id": "e1", "company": "Acme", "position": "Dev", "start_date": "2020-01-01"}],
		"education": [],
		"skills": [{"id": "s1", "name": "Go", "level": "Expert"}]
	}`
	w := s.do(t, http.MethodPut, "/cv", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	doc := s.store.Snapshot()
	assert.Equal(t, "Ana", doc.PersonalInfo.FullName)
	require.Len(t, doc.Experiences, 1)
	assert.Equal(t, "e1", doc.Experiences[0].ID)
	assert.Equal(t, types.SkillLevelExpert, doc.Skills[0].Level)
}

func TestReplaceDocument_SchemaFailure(t *testing.T) {
	s := newTestServer(t)
	s.store.AddSkill("Go", types.SkillLevelBasic)

	w := s.do(t, http.MethodPut, "/cv", `{"personal_info": {"full_name": "", "email": ""}, "experiences": []}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeBody[map[string]any](t, w)
	assert.NotEmpty(t, resp["fields"])
	assert.Len(t, s.store.Snapshot().Skills, 1, "store untouched")
}

func TestReplaceDocument_DuplicateIDs(t *testing.T) {
	s := newTestServer(t)
	s.store.AddSkill("SQL", types.SkillLevelBasic)

	body := `{
		"personal_info": {"full_name": "Ana", "email": "ana@example.com"},
		"experiences": [],
		"education": [],
		"skills": [
			{"id": "s", "name": "Go", "level": "Expert"},
			{"id": "s", "name": "Rust", "level": "Basic"}
		]
	}`
	w := s.do(t, http.MethodPut, "/cv", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "skills.1.id")

	skills := s.store.Snapshot().Skills
	require.Len(t, skills, 1, "store untouched")
	assert.Equal(t, "SQL", skills[0].Name)
}

func TestRenderEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPut, "/cv/personal-info", types.PersonalInfo{FullName: "Ana <Dev>", Email: "ana@example.com"})
	s.do(t, http.MethodPost, "/cv/experiences", validExperience())

	w := s.do(t, http.MethodGet, "/cv/render", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	page, err := goquery.NewDocumentFromReader(strings.NewReader(w.Body.String()))
	require.NoError(t, err)
	assert.Equal(t, "Ana <Dev>", page.Find(".name").Text())
	assert.Equal(t, "2020-01-01 - Current", strings.TrimSpace(page.Find(".experience .itemDate").Text()))
	assert.NotContains(t, w.Body.String(), "<Dev>")
}

func TestExportEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPut, "/cv/personal-info", types.PersonalInfo{FullName: "José Núñez", Email: "jose@example.com"})

	s.printer.EXPECT().
		PrintPDF(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, markup string) ([]byte, error) {
			assert.Contains(t, markup, "José Núñez")
			return []byte("%PDF-1.4"), nil
		})

	w := s.do(t, http.MethodGet, "/cv/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="jose-nunez.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4", w.Body.String())
}

func TestExportEndpoint_PrinterFailure(t *testing.T) {
	s := newTestServer(t)
	s.printer.EXPECT().
		PrintPDF(gomock.Any(), gomock.Any()).
		Return(nil, &export.PrintError{Message: "headless browser failed"})

	w := s.do(t, http.MethodGet, "/cv/export", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, decodeBody[map[string]string](t, w)["error"], "headless browser failed")
}
