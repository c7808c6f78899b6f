package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aanbieding/folder/pkg/artifacts"
	"github.com/aanbieding/folder/pkg/buildinfo"
	"github.com/aanbieding/folder/pkg/errors"
	"github.com/aanbieding/folder/pkg/folder"
	"github.com/aanbieding/folder/pkg/jobs"
	"github.com/aanbieding/folder/pkg/pipeline"
	"github.com/aanbieding/folder/pkg/writer"
)

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

type generateResponse struct {
	Success    bool    `json:"success"`
	JobID      string  `json:"job_id"`
	Message    string  `json:"message"`
	FileSizeKB float64 `json:"file_size_kb,omitempty"`
	Pages      int     `json:"pages,omitempty"`
}

type jobResponse struct {
	JobID  string      `json:"job_id"`
	Status jobs.Status `json:"status"`
	SizeKB float64     `json:"size_kb"`
	Pages  int         `json:"pages,omitempty"`
	// VerifiedPages is the page count read back from the PDF artifact.
	VerifiedPages int    `json:"verified_pages,omitempty"`
	Error         string `json:"error,omitempty"`
}

type listResponse struct {
	Total int           `json:"total"`
	Jobs  []jobResponse `json:"jobs"`
}

type cleanupResponse struct {
	JobsBefore int `json:"jobs_before"`
	JobsAfter  int `json:"jobs_after"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Service: ServiceName,
		Version: buildinfo.Version,
	})
}

// generate validates the request, registers a job and renders the artifact
// synchronously. Generation failures are reported in the body with
// success=false so the client can still show the job id.
func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBytes)

	req, err := folder.Decode(r.Body, folder.FormatJSON)
	if err == nil {
		err = req.Validate()
	}
	if err != nil {
		writeError(w, err)
		return
	}

	format := s.runner.Writer.Format()
	label := strings.ToUpper(string(format))

	job, err := s.jobs.Create(ctx, req.OutputFilename)
	if err != nil {
		s.logger.Error("create job", "err", err)
		writeJSON(w, http.StatusInternalServerError, generateResponse{
			JobID:   "unknown",
			Message: "Server error: " + errors.UserMessage(err),
		})
		return
	}

	dst := s.store.Path(job.ID, writer.Extension(format))
	res, err := s.runner.Generate(ctx, req, dst)
	if err != nil {
		s.logger.Error("generation failed", "job", job.ID, "err", err)
		if _, ferr := s.jobs.Fail(ctx, job.ID, errors.UserMessage(err)); ferr != nil {
			s.logger.Warn("mark job failed", "job", job.ID, "err", ferr)
		}
		writeJSON(w, http.StatusOK, generateResponse{
			JobID:   job.ID,
			Message: label + " generation failed",
		})
		return
	}

	if _, err := s.jobs.Complete(ctx, job.ID, jobs.Outcome{
		Path:   res.Path,
		Format: string(res.Format),
		Size:   res.Size,
		Pages:  res.Stats.PhysicalPages,
	}); err != nil {
		s.logger.Error("complete job", "job", job.ID, "err", err)
		writeJSON(w, http.StatusInternalServerError, generateResponse{
			JobID:   job.ID,
			Message: "Server error: " + errors.UserMessage(err),
		})
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Success:    true,
		JobID:      job.ID,
		Message:    label + " generated successfully",
		FileSizeKB: res.SizeKB(),
		Pages:      res.Stats.PhysicalPages,
	})
}

// lookup resolves the {job_id} path parameter.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*jobs.Job, bool) {
	id := chi.URLParam(r, "job_id")
	if err := errors.ValidateJobID(id); err != nil {
		writeJobError(w, id, errors.Wrap(errors.ErrCodeJobNotFound, err, "Job not found"), "")
		return nil, false
	}
	job, err := s.jobs.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, errors.ErrCodeJobNotFound) {
			err = errors.Wrap(errors.ErrCodeJobNotFound, err, "Job not found")
		}
		writeJobError(w, id, err, "")
		return nil, false
	}
	return job, true
}

func (s *Server) download(w http.ResponseWriter, r *http.Request) {
	job, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if job.Status != jobs.StatusCompleted {
		writeJobError(w, job.ID,
			errors.New(errors.ErrCodeJobNotCompleted, "Job not completed"),
			fmt.Sprintf("Status: %s", job.Status))
		return
	}

	f, err := os.Open(job.Path)
	if err != nil {
		writeJobError(w, job.ID, errors.Wrap(errors.ErrCodeFileNotFound, err, "File not found"), "")
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "stat artifact"))
		return
	}

	format := writer.Format(job.Format)
	w.Header().Set("Content-Type", writer.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadName(job.Filename, format)))
	http.ServeContent(w, r, "", info.ModTime(), f)
}

// downloadName swaps the requested filename's extension for the artifact's.
func downloadName(filename string, format writer.Format) string {
	ext := writer.Extension(format)
	if strings.EqualFold(filepath.Ext(filename), ext) {
		return filename
	}
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + ext
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	job, ok := s.lookup(w, r)
	if !ok {
		return
	}
	resp := toResponse(*job)
	if r.URL.Query().Get("verify") != "" && job.Status == jobs.StatusCompleted && writer.Format(job.Format) == writer.FormatPDF {
		sum, err := artifacts.Inspect(job.Path)
		if err != nil {
			writeJobError(w, job.ID, err, "")
			return
		}
		resp.VerifiedPages = sum.Pages
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	all, err := s.jobs.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	resp := listResponse{Total: len(all), Jobs: make([]jobResponse, 0, len(all))}
	for _, j := range all {
		resp.Jobs = append(resp.Jobs, toResponse(j))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) cleanup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	before, err := s.jobs.List(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	removed, err := s.jobs.Prune(ctx, s.opts.Keep)
	if err != nil {
		writeError(w, err)
		return
	}
	for _, j := range removed {
		if err := s.store.Remove(j.Path); err != nil {
			s.logger.Warn("remove artifact", "job", j.ID, "err", err)
		}
	}
	writeJSON(w, http.StatusOK, cleanupResponse{
		JobsBefore: len(before),
		JobsAfter:  len(before) - len(removed),
	})
}

func toResponse(j jobs.Job) jobResponse {
	return jobResponse{
		JobID:  j.ID,
		Status: j.Status,
		SizeKB: pipeline.SizeKB(j.Size),
		Pages:  j.Pages,
		Error:  j.Error,
	}
}
