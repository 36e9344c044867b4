package gateway

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/c360/pipewright/caps"
	"github.com/c360/pipewright/dot"
	"github.com/c360/pipewright/element"
	"github.com/c360/pipewright/errors"
	"github.com/c360/pipewright/launch"
	"github.com/c360/pipewright/negotiate"
	"github.com/c360/pipewright/pipeline"
	"github.com/c360/pipewright/recipes"
)

type parseCapsRequest struct {
	Caps string `json:"caps"`
}

type parseCapsResponse struct {
	Caps       caps.Caps `json:"caps"`
	Normalized string    `json:"normalized"`
	Fixed      bool      `json:"fixed"`
}

func (s *Server) handleParseCaps(w http.ResponseWriter, r *http.Request) {
	var req parseCapsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	parsed, err := caps.Parse(req.Caps)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, parseCapsResponse{
		Caps:       parsed,
		Normalized: parsed.String(),
		Fixed:      parsed.IsFixed(),
	})
}

type checkCapsRequest struct {
	Upstream   string `json:"upstream"`
	Downstream string `json:"downstream"`
	// Converters asks for converter suggestions when the caps do not
	// intersect directly
	Converters bool `json:"converters,omitempty"`
}

func (s *Server) handleCheckCaps(w http.ResponseWriter, r *http.Request) {
	var req checkCapsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	up, err := caps.Parse(req.Upstream)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	down, err := caps.Parse(req.Downstream)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result := s.negotiator.Check(up, down)
	if req.Converters {
		result = s.negotiator.CheckWithConverters(up, down)
	}
	s.recordCapsCheck(string(result.Compatibility))
	s.writeJSON(w, http.StatusOK, result)
}

type suggestConvertersRequest struct {
	Upstream   string `json:"upstream"`
	Downstream string `json:"downstream"`
}

type suggestConvertersResponse struct {
	Suggestions []string `json:"suggestions"`
}

func (s *Server) handleSuggestConverters(w http.ResponseWriter, r *http.Request) {
	var req suggestConvertersRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	up, err := caps.Parse(req.Upstream)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	down, err := caps.Parse(req.Downstream)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, suggestConvertersResponse{
		Suggestions: s.negotiator.SuggestConverters(up, down),
	})
}

type canLinkRequest struct {
	Src  string `json:"src"`
	Sink string `json:"sink"`
	// SrcPad and SinkPad restrict the check to named pad templates
	SrcPad  string `json:"src_pad,omitempty"`
	SinkPad string `json:"sink_pad,omitempty"`
}

func (s *Server) handleCanLink(w http.ResponseWriter, r *http.Request) {
	var req canLinkRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	report, err := s.negotiator.CanLink(req.Src, req.Sink)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.SrcPad != "" || req.SinkPad != "" {
		report = restrictToPads(report, req.SrcPad, req.SinkPad)
	}
	s.recordCapsCheck(string(report.Verdict))
	s.writeJSON(w, http.StatusOK, report)
}

// restrictToPads narrows a link report to the named pad templates and
// recomputes the verdict from the surviving pairs
func restrictToPads(report negotiate.LinkReport, srcPad, sinkPad string) negotiate.LinkReport {
	var kept []negotiate.PadPair
	for _, pair := range report.Pairs {
		if srcPad != "" && pair.SrcPad != srcPad {
			continue
		}
		if sinkPad != "" && pair.SinkPad != sinkPad {
			continue
		}
		kept = append(kept, pair)
	}
	report.Pairs = kept
	report.Linkable = false
	for _, pair := range kept {
		if pair.Compatible {
			report.Linkable = true
			break
		}
	}
	if report.Linkable {
		report.Verdict = negotiate.Compatible
		report.Suggestions = nil
	} else if report.Verdict == negotiate.Compatible {
		// Compatible pads exist, just not the requested ones
		report.Verdict = negotiate.Incompatible
	}
	return report
}

func (s *Server) handleListElements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, r, errors.WrapInvalid(errors.ErrInvalidData,
				"Server", "handleListElements", "limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	if query := q.Get("q"); query != "" {
		var fields []string
		if raw := q.Get("fields"); raw != "" {
			fields = strings.Split(raw, ",")
		}
		s.writeJSON(w, http.StatusOK, s.registry.Search(query, fields, limit))
		return
	}
	if category := q.Get("category"); category != "" {
		s.writeJSON(w, http.StatusOK, s.registry.ListByCategory(category, limit))
		return
	}

	names := s.registry.Names()
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	s.writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleGetElement(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	info, ok := s.registry.Get(name)
	if !ok {
		s.writeError(w, r, errors.WrapInvalid(errors.ErrElementNotFound,
			"Server", "handleGetElement", "check the element name with GET /v1/elements"))
		return
	}
	s.writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleListPlugins(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, element.Plugins(s.registry))
}

func (s *Server) handleGetPlugin(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	summary, ok := element.PluginByName(s.registry, name)
	if !ok {
		s.writeError(w, r, errors.WrapInvalid(errors.ErrPluginNotFound,
			"Server", "handleGetPlugin", "list available plugins with GET /v1/plugins"))
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

type elementDocsResponse struct {
	Element       string `json:"element"`
	Documentation string `json:"documentation"`
}

func (s *Server) handleElementDocs(w http.ResponseWriter, r *http.Request) {
	if s.fetcher == nil {
		s.writeJSON(w, http.StatusNotImplemented, errorResponse{
			Error:     "documentation fetching is not enabled",
			RequestID: w.Header().Get("X-Request-ID"),
		})
		return
	}
	name := r.PathValue("name")
	ctx, cancel := s.requestContext(r)
	defer cancel()
	text, err := s.fetcher.Fetch(ctx, name)
	if err != nil {
		s.recordDocFetch("failure")
		s.writeError(w, r, err)
		return
	}
	s.recordDocFetch("success")
	s.writeJSON(w, http.StatusOK, elementDocsResponse{Element: name, Documentation: text})
}

type validateRequest struct {
	Pipeline string `json:"pipeline"`
}

type validateResponse struct {
	Valid       bool                `json:"valid"`
	Diagnostics []launch.Diagnostic `json:"diagnostics"`
	Graph       string              `json:"graph,omitempty"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	desc, diags := s.validator.Validate(req.Pipeline)
	valid := true
	for _, d := range diags {
		s.recordDiagnostic(string(d.Kind))
		if d.Severity == launch.SeverityError {
			valid = false
		}
	}
	if diags == nil {
		diags = []launch.Diagnostic{}
	}
	resp := validateResponse{Valid: valid, Diagnostics: diags}
	if valid {
		resp.Graph = dot.Render(desc, dot.Options{})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type graphRequest struct {
	Pipeline       string `json:"pipeline"`
	Name           string `json:"name,omitempty"`
	RankDir        string `json:"rankdir,omitempty"`
	ShowProperties bool   `json:"show_properties,omitempty"`
}

func (s *Server) handleGraphFromText(w http.ResponseWriter, r *http.Request) {
	var req graphRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	desc, perr := s.validator.Parser().Parse(req.Pipeline)
	if perr != nil {
		s.writeError(w, r, errors.WrapInvalid(perr, "Server", "handleGraphFromText",
			"fix the pipeline description and retry"))
		return
	}
	s.writeDOT(w, dot.Render(desc, dot.Options{
		Name:           req.Name,
		RankDir:        req.RankDir,
		ShowProperties: req.ShowProperties,
	}))
}

type runPipelineRequest struct {
	Pipeline string `json:"pipeline"`
	// Mode is "sync" or "async", async when empty
	Mode string `json:"mode,omitempty"`
	// Timeout bounds a sync run, e.g. "30s"
	Timeout string `json:"timeout,omitempty"`
}

type runPipelineResponse struct {
	ID     string             `json:"id"`
	Result pipeline.RunResult `json:"result"`
}

func (s *Server) handleRunPipeline(w http.ResponseWriter, r *http.Request) {
	var req runPipelineRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	mode := pipeline.ModeAsync
	switch req.Mode {
	case "", "async":
	case "sync":
		mode = pipeline.ModeSync
	default:
		s.writeError(w, r, errors.WrapInvalid(errors.ErrInvalidData,
			"Server", "handleRunPipeline", `set mode to "sync" or "async"`))
		return
	}
	var timeout time.Duration
	if req.Timeout != "" {
		d, err := time.ParseDuration(req.Timeout)
		if err != nil || d < 0 {
			s.writeError(w, r, errors.WrapInvalid(errors.ErrInvalidData,
				"Server", "handleRunPipeline", `set timeout to a duration such as "30s"`))
			return
		}
		timeout = d
	}

	desc, perr := s.validator.Parser().Parse(req.Pipeline)
	if perr != nil {
		s.writeError(w, r, errors.WrapInvalid(perr, "Server", "handleRunPipeline",
			"fix the pipeline description and retry"))
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()
	id, err := s.pipelines.Create(ctx, desc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.pipelines.Run(ctx, id, mode, timeout)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, runPipelineResponse{ID: id, Result: result})
}

func (s *Server) handleListPipelines(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.pipelines.List())
}

func (s *Server) handlePipelineStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.pipelines.Status(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, status)
}

func (s *Server) handlePipelineGraph(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	status, err := s.pipelines.Status(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	desc, perr := s.validator.Parser().Parse(status.Description)
	if perr != nil {
		s.writeError(w, r, errors.WrapInvalid(perr, "Server", "handlePipelineGraph",
			"the stored description no longer parses against the registry"))
		return
	}
	opts := dot.Options{Name: id}
	if r.URL.Query().Get("properties") == "true" {
		opts.ShowProperties = true
	}
	s.writeDOT(w, dot.Render(desc, opts))
}

func (s *Server) handleStopPipeline(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()
	result, err := s.pipelines.Stop(ctx, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePausePipeline(w http.ResponseWriter, r *http.Request) {
	s.suspendResume(w, r, s.pipelines.Pause)
}

func (s *Server) handleResumePipeline(w http.ResponseWriter, r *http.Request) {
	s.suspendResume(w, r, s.pipelines.Resume)
}

func (s *Server) suspendResume(w http.ResponseWriter, r *http.Request, op func(string) error) {
	id := r.PathValue("id")
	if err := op(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	status, err := s.pipelines.Status(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleRecipes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if name := q.Get("name"); name != "" {
		recipe, ok := recipes.Find(name)
		if !ok {
			s.writeError(w, r, errors.WrapInvalid(errors.ErrElementNotFound,
				"Server", "handleRecipes", "list available recipes with GET /v1/recipes"))
			return
		}
		s.writeJSON(w, http.StatusOK, recipe)
		return
	}
	if category := q.Get("category"); category != "" {
		s.writeJSON(w, http.StatusOK, recipes.ByCategory(category))
		return
	}
	s.writeJSON(w, http.StatusOK, recipes.All())
}

func (s *Server) writeDOT(w http.ResponseWriter, graph string) {
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(graph))
}

func (s *Server) recordCapsCheck(verdict string) {
	if s.metrics == nil {
		return
	}
	s.metrics.CoreMetrics().CapsChecks.WithLabelValues(verdict).Inc()
}

func (s *Server) recordDiagnostic(kind string) {
	if s.metrics == nil {
		return
	}
	s.metrics.CoreMetrics().ValidationDiagnostics.WithLabelValues(kind).Inc()
}

func (s *Server) recordDocFetch(outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.CoreMetrics().DocFetches.WithLabelValues(outcome).Inc()
}
