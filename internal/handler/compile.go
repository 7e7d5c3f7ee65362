package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"faqforge/internal/config"
	"faqforge/internal/domain/models"
	"faqforge/internal/domain/services"
	"faqforge/internal/httputil"
)

// CompileHandler handles document upload and pipeline runs.
type CompileHandler struct {
	pipeline   services.Pipeline
	cfg        *config.Config
	runTimeout time.Duration
	logger     *slog.Logger
}

// NewCompileHandler creates a new compile handler.
func NewCompileHandler(pipeline services.Pipeline, cfg *config.Config, logger *slog.Logger) *CompileHandler {
	return &CompileHandler{
		pipeline:   pipeline,
		cfg:        cfg,
		runTimeout: cfg.RunTimeout,
		logger:     logger,
	}
}

// Compile runs the full pipeline on an uploaded DOCX
// POST /api/compile
func (h *CompileHandler) Compile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes)
	if err := r.ParseMultipartForm(config.MaxUploadBytes); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".docx") {
		httputil.RespondError(w, http.StatusBadRequest, "only .docx files are accepted")
		return
	}

	docx, err := io.ReadAll(file)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	req, err := h.buildRunRequest(r, docx)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.runTimeout)
	defer cancel()

	result, err := h.pipeline.Run(ctx, req)
	if err != nil {
		h.logger.Error("pipeline run failed",
			"filename", header.Filename,
			"error", err,
		)
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// buildRunRequest assembles a pipeline request from the form fields,
// falling back to configured defaults for everything optional.
func (h *CompileHandler) buildRunRequest(r *http.Request, docx []byte) (services.RunRequest, error) {
	var req services.RunRequest
	req.Docx = docx

	consoleID, err := httputil.FormInt(r, "console", 0)
	if err != nil {
		return req, err
	}
	subConsoleID, err := httputil.FormInt(r, "sub_console", 0)
	if err != nil {
		return req, err
	}
	country, err := httputil.FormInt(r, "country", 0)
	if err != nil {
		return req, err
	}
	institution, err := httputil.FormInt(r, "inst", 0)
	if err != nil {
		return req, err
	}
	langID, err := httputil.FormInt(r, "lang", 1)
	if err != nil {
		return req, err
	}

	req.Key = models.TargetingKey{
		ConsoleID:    consoleID,
		SubConsoleID: subConsoleID,
		Country:      country,
		Institution:  institution,
		LangID:       langID,
		BankMap:      httputil.FormString(r, "bank_map", ""),
		Answers:      models.AnswerLanguage(httputil.FormString(r, "answers_to", string(models.AnswerOther))),
	}

	req.GenerateQuestions = httputil.FormBool(r, "gen_questions", false)
	if req.QMin, err = httputil.FormInt(r, "qmin", h.cfg.QMin); err != nil {
		return req, err
	}
	if req.QMax, err = httputil.FormInt(r, "qmax", h.cfg.QMax); err != nil {
		return req, err
	}
	if req.QMaxWords, err = httputil.FormInt(r, "q_max_words", h.cfg.QMaxWords); err != nil {
		return req, err
	}
	if req.Limit, err = httputil.FormInt(r, "limit", 0); err != nil {
		return req, err
	}

	req.WriteToStore = httputil.FormBool(r, "db_insert", false)
	req.Sequences = models.SequenceNames{
		Answers:   httputil.FormString(r, "seq_ans", h.cfg.SeqAnswers),
		Questions: httputil.FormString(r, "seq_faq", h.cfg.SeqQuestions),
	}

	req.FragmentsPath = filepath.Join(h.cfg.OutputDir, "fragments.html")
	req.QuestionsPath = filepath.Join(h.cfg.OutputDir, "questions.jsonl")
	return req, nil
}
