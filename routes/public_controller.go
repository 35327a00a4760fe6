package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/recruitkit/recruitkit/app"
	"github.com/recruitkit/recruitkit/httpx"
	"github.com/recruitkit/recruitkit/log"
	"github.com/recruitkit/recruitkit/model"
)

const maxResumeSize = 25 << 20

// PublicSubmitApplication is the anonymous intake endpoint. The local
// response write is the durability anchor: everything before it is
// best-effort, anything failing at or after it surfaces as a 500.
func PublicSubmitApplication(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := httpx.ReadMultipartForm(r, maxResumeSize)
		if err != nil {
			if errors.Is(err, httpx.ErrFileTooLarge) {
				httpx.Error(w, r, http.StatusBadRequest, log.DebugLevel, "resume exceeds size limit")
				return
			}
			httpx.Error(w, r, http.StatusBadRequest, log.DebugLevel, "invalid multipart body")
			return
		}

		openingID := r.URL.Query().Get("opening")
		if openingID == "" {
			openingID = form.First("opening")
		}
		if openingID == "" {
			httpx.Error(w, r, http.StatusBadRequest, log.DebugLevel, "missing opening id")
			return
		}
		source := r.URL.Query().Get("src")
		if source == "" {
			source = form.First("src")
		}
		if source == "" {
			source = "unknown"
		}

		// a lookup failure must not lose the submission
		openingTitle := ""
		opening, err := app.Openings.Get(r.Context(), openingID)
		if err != nil {
			log.Warnf("apply.get_opening: %s", err)
		} else if opening != nil {
			openingTitle = opening.Title
		}

		// Inline schema: a parse failure is ignored; a persist failure
		// downgrades it to a read-only override for this intake.
		var inline []model.Question
		if raw := form.First("_schema"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &inline); err != nil {
				log.Debugf("apply.inline_schema.parse: %s", err)
				inline = nil
			} else if err := app.Openings.PersistInlineSchema(r.Context(), openingID, inline); err != nil {
				log.Warnf("apply.inline_schema.persist: %s", err)
			}
		}

		schema, err := app.Openings.Schema(r.Context(), openingID)
		if err != nil {
			log.Warnf("apply.get_schema: %s", err)
			schema = nil
		}
		if len(schema) == 0 {
			schema = inline
		}

		ms := uniqueMillis()

		resumeLink := ""
		if form.File != nil {
			original := form.File.Name
			if original == "" {
				original = "resume"
			}
			filename := fmt.Sprintf("%d_%s", ms, original)

			link, err := app.Drive.Upload(r.Context(), form.File.Data, filename, form.File.ContentType)
			if err != nil {
				log.Warnf("apply.upload: %s", err)
				link, err = app.Local.Upload(r, form.File.Data, filename)
				if err != nil {
					log.Errorf("apply.upload_local: %s", err)
					link = ""
				}
			}
			resumeLink = link
		}

		answers := collectAnswers(form.Fields)

		response := &model.Response{
			ID:           fmt.Sprintf("resp_%d", ms),
			OpeningID:    openingID,
			OpeningTitle: openingTitle,
			Source:       source,
			FullName:     coreValue(answers, model.QFullName, "fullname", "name"),
			Email:        coreValue(answers, model.QEmail, "email"),
			Phone:        coreValue(answers, model.QPhone, "phone"),
			College:      coreValue(answers, model.QCollege, "college"),
			ResumeLink:   resumeLink,
			Answers:      answers,
			Status:       model.StatusApplied,
			CreatedAt:    isoTimestamp(ms),
		}
		if err := app.Responses.Append(r.Context(), response); err != nil {
			httpx.ServerError(w, r, "apply.store", err)
			return
		}

		if app.Config.Google.SheetID != "" {
			tabTitle := openingID
			if opening == nil {
				tabTitle = "opening_" + openingID
			}
			writeSpreadsheetRow(r.Context(), app, response, schema, tabTitle)
		}

		result := map[string]any{"ok": true, "resumeLink": nil}
		if resumeLink != "" {
			result["resumeLink"] = resumeLink
		}
		render.JSON(w, r, result)
	}
}

// writeSpreadsheetRow mirrors the response to the spreadsheet: the
// schema-aligned tab when a schema exists, falling back to a generic
// Sheet1 row. Failures are logged and never fail the intake.
func writeSpreadsheetRow(ctx context.Context, app app.App, response *model.Response, schema []model.Question, tabTitle string) {
	sheetID := app.Config.Google.SheetID
	prefix := []string{
		response.CreatedAt,
		response.OpeningID,
		response.OpeningTitle,
		response.Source,
		response.ResumeLink,
	}

	if len(schema) > 0 {
		err := func() error {
			if _, err := app.Sheets.EnsureTabWithHeaders(ctx, sheetID, tabTitle, schema); err != nil {
				return err
			}
			row := append(append([]string{}, prefix...), rowSuffix(schema, response.Answers)...)
			return app.Sheets.AppendRow(ctx, sheetID, tabTitle, row)
		}()
		if err == nil {
			return
		}
		log.Warnf("apply.sheet: %s", err)
	}

	answersJSON, err := json.Marshal(response.Answers)
	if err != nil {
		log.Errorf("apply.sheet_generic.answers: %s", err)
		answersJSON = []byte("{}")
	}
	row := append(append([]string{}, prefix...), string(answersJSON))
	if err := app.Sheets.AppendGeneric(ctx, sheetID, row); err != nil {
		log.Warnf("apply.sheet_generic: %s", err)
	}
}

// PublicGetForm serves a published form to externally hosted share links.
func PublicGetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		openingID := chi.URLParam(r, "id")

		form, err := app.Openings.Form(r.Context(), openingID)
		if err != nil {
			httpx.ServerError(w, r, "public.get_form", err)
			return
		}
		if form == nil || !form.Meta.IsPublished {
			httpx.LogNotFound(w, "public.get_form", openingID)
			return
		}

		render.JSON(w, r, form)
	}
}
