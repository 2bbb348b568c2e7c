package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mlmodeld/internal/manager"
	"mlmodeld/pkg/types"
)

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
			MaxAge:         300,
		}))
	}

	h := &handlers{svc: svc}
	r.Group(func(r chi.Router) {
		if mw := rateLimitMiddleware(); mw != nil {
			r.Use(mw)
		}
		r.Post("/models", h.create)
		r.Get("/models", h.list)
		r.Get("/models/{name}", h.describe)
		r.Delete("/models/{name}", h.remove)
		r.Post("/models/{name}/rows", h.addRows)
		r.Post("/models/{name}/train", h.train)
		r.Post("/models/{name}/predict", h.predict)
	})

	r.Get("/frameworks", h.frameworks)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

type handlers struct {
	svc Service
}

// decodeJSON enforces the content type and body limit, then decodes into v.
// It writes the error response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// fail writes err with its mapped status and logs the outcome.
func fail(w http.ResponseWriter, r *http.Request, op, model string, start time.Time, err error) {
	status := statusFor(err)
	writeJSONError(w, status, err.Error())
	observeModelOp(op, status, start)
	logOutcome(r, op, model, status, start, err)
}

func toStatus(res manager.Result) types.ModelStatus {
	return types.ModelStatus{
		Name:         res.Name,
		State:        string(res.State),
		Framework:    res.Framework,
		MethodName:   res.MethodName,
		TrainingSets: res.TrainingSets,
		Info:         res.Info,
	}
}

// create godoc
// @Summary      Create a model
// @Description  Creates (or replaces) a named model with a field schema and backend config.
// @Tags         models
// @Accept       json
// @Produce      json
// @Param        body  body      types.CreateModelRequest  true  "model definition"
// @Success      201   {object}  types.ModelStatus
// @Failure      400   {object}  types.ErrorResponse
// @Router       /models [post]
func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req types.CreateModelRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return
	}
	res, err := h.svc.CreateModel(req.Name, req.Types, req.Output, req.Config)
	if err != nil {
		fail(w, r, "create", req.Name, start, err)
		return
	}
	writeJSON(w, http.StatusCreated, toStatus(res))
	observeModelOp("create", http.StatusCreated, start)
	logOutcome(r, "create", req.Name, http.StatusCreated, start, nil)
}

// list godoc
// @Summary   List models
// @Tags      models
// @Produce   json
// @Success   200  {object}  types.ModelsResponse
// @Router    /models [get]
func (h *handlers) list(w http.ResponseWriter, r *http.Request) {
	results := h.svc.List()
	out := types.ModelsResponse{Models: make([]types.ModelStatus, 0, len(results))}
	for _, res := range results {
		out.Models = append(out.Models, toStatus(res))
	}
	writeJSON(w, http.StatusOK, out)
}

// describe godoc
// @Summary   Describe a model
// @Tags      models
// @Produce   json
// @Param     name  path      string  true  "model name"
// @Success   200   {object}  types.ModelStatus
// @Failure   404   {object}  types.ErrorResponse
// @Router    /models/{name} [get]
func (h *handlers) describe(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	name := chi.URLParam(r, "name")
	res, err := h.svc.Describe(name)
	if err != nil {
		fail(w, r, "describe", name, start, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatus(res))
	observeModelOp("describe", http.StatusOK, start)
}

// remove godoc
// @Summary      Remove a model
// @Description  Always succeeds; status is "unknown" when no such model existed.
// @Tags         models
// @Produce      json
// @Param        name  path      string  true  "model name"
// @Success      200   {object}  types.RemoveResponse
// @Router       /models/{name} [delete]
func (h *handlers) remove(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	name := chi.URLParam(r, "name")
	res := h.svc.Remove(name)
	writeJSON(w, http.StatusOK, types.RemoveResponse{Name: name, Status: string(res.State)})
	observeModelOp("remove", http.StatusOK, start)
	logOutcome(r, "remove", name, http.StatusOK, start, nil)
}

// addRows godoc
// @Summary      Add training rows
// @Description  Accepts one example (inputs/output) or a batch (rows). A batch is all-or-nothing.
// @Tags         models
// @Accept       json
// @Produce      json
// @Param        name  path      string                true  "model name"
// @Param        body  body      types.AddRowsRequest  true  "training data"
// @Success      200   {object}  types.AddRowsResponse
// @Failure      400   {object}  types.ErrorResponse
// @Failure      404   {object}  types.ErrorResponse
// @Failure      409   {object}  types.ErrorResponse
// @Router       /models/{name}/rows [post]
func (h *handlers) addRows(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	name := chi.URLParam(r, "name")
	var req types.AddRowsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	examples := make([]manager.Example, 0, len(req.Rows)+1)
	for _, ex := range req.Rows {
		examples = append(examples, manager.Example{Inputs: ex.Inputs, Output: ex.Output})
	}
	if req.Inputs != nil || req.Output != nil {
		examples = append(examples, manager.Example{Inputs: req.Inputs, Output: req.Output})
	}
	if len(examples) == 0 {
		writeJSONError(w, http.StatusBadRequest, "inputs or rows are required")
		return
	}
	if err := h.svc.AddBatch(name, examples); err != nil {
		fail(w, r, "add", name, start, err)
		return
	}
	res, err := h.svc.Describe(name)
	if err != nil {
		// Removed between the two calls.
		fail(w, r, "add", name, start, err)
		return
	}
	writeJSON(w, http.StatusOK, types.AddRowsResponse{
		Name:         name,
		Added:        len(examples),
		TrainingSets: res.TrainingSets,
		State:        string(res.State),
	})
	observeModelOp("add", http.StatusOK, start)
	logDebug(r, "add", name, map[string]any{"added": len(examples), "total": res.TrainingSets})
}

// train godoc
// @Summary      Train a model
// @Description  Fits the backend on all buffered rows. No-op when already ready.
// @Tags         models
// @Produce      json
// @Param        name  path      string  true  "model name"
// @Success      200   {object}  types.ModelStatus
// @Failure      404   {object}  types.ErrorResponse
// @Failure      409   {object}  types.ErrorResponse
// @Failure      422   {object}  types.ErrorResponse
// @Router       /models/{name}/train [post]
func (h *handlers) train(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	name := chi.URLParam(r, "name")
	ctx, cancel := backendContext(r)
	defer cancel()
	if err := h.svc.Train(ctx, name); err != nil {
		if r.Context().Err() != nil {
			return
		}
		fail(w, r, "train", name, start, err)
		return
	}
	res, err := h.svc.Describe(name)
	if err != nil {
		fail(w, r, "train", name, start, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatus(res))
	observeModelOp("train", http.StatusOK, start)
	logOutcome(r, "train", name, http.StatusOK, start, nil)
}

// predict godoc
// @Summary      Predict
// @Description  Runs the fitted model on one example, training first if needed.
// @Tags         models
// @Accept       json
// @Produce      json
// @Param        name  path      string                true  "model name"
// @Param        body  body      types.PredictRequest  true  "example"
// @Success      200   {object}  types.PredictResponse
// @Failure      400   {object}  types.ErrorResponse
// @Failure      404   {object}  types.ErrorResponse
// @Failure      409   {object}  types.ErrorResponse
// @Router       /models/{name}/predict [post]
func (h *handlers) predict(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	name := chi.URLParam(r, "name")
	var req types.PredictRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ctx, cancel := backendContext(r)
	defer cancel()
	v, err := h.svc.Predict(ctx, name, req.Inputs)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		fail(w, r, "predict", name, start, err)
		return
	}
	writeJSON(w, http.StatusOK, types.PredictResponse{Name: name, Value: v})
	observeModelOp("predict", http.StatusOK, start)
	logDebug(r, "predict", name, map[string]any{"value": v, "dur": time.Since(start).String()})
}

// frameworks godoc
// @Summary   List backend frameworks
// @Tags      frameworks
// @Produce   json
// @Success   200  {object}  types.FrameworksResponse
// @Router    /frameworks [get]
func (h *handlers) frameworks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.FrameworksResponse{
		Frameworks: h.svc.Frameworks(),
		Default:    h.svc.DefaultFramework(),
	})
}
