package server

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nbmap/nbmap/pkg/areal"
	"github.com/nbmap/nbmap/pkg/pipeline"
	"github.com/nbmap/nbmap/pkg/render/mapview"
	"github.com/nbmap/nbmap/pkg/store"
	"github.com/nbmap/nbmap/pkg/xerrors"
)

// contentTypes maps output formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:     "image/svg+xml",
	pipeline.FormatPNG:     "image/png",
	pipeline.FormatDOT:     "text/vnd.graphviz",
	pipeline.FormatGeoJSON: "application/geo+json",
	pipeline.FormatJSON:    "application/json",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRender runs the pipeline on the posted GeoJSON and responds
// with the requested artifact.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, data, "request")
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, data []byte, source string) {
	opts, format, err := parseRenderOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Source = source

	result, err := s.runner.Execute(r.Context(), data, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Content-Hash", result.ContentHash)
	w.WriteHeader(http.StatusOK)
	w.Write(result.Artifacts[format])
}

// handleCreateDataset stores the posted GeoJSON under the given name
// and responds with the dataset metadata.
func (s *Server) handleCreateDataset(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, xerrors.New(xerrors.ErrCodeUnsupported, "dataset storage is not configured"))
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		s.writeError(w, r, xerrors.New(xerrors.ErrCodeInvalidDataset, "missing required query parameter: name"))
		return
	}
	if err := xerrors.ValidateDatasetName(name); err != nil {
		s.writeError(w, r, err)
		return
	}

	data, err := readBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// Validate the payload before persisting it
	col, err := areal.Decode(data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ds := store.New(name, data)
	ds.Description = r.URL.Query().Get("description")
	ds.Areas = col.Len()
	ds.CRS = col.CRS()
	if rel, err := col.Neighbours(); err == nil {
		ds.Links = len(rel.Pairs())
	}

	if err := s.store.Put(r.Context(), ds); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, ds.Meta())
}

func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, xerrors.New(xerrors.ErrCodeUnsupported, "dataset storage is not configured"))
		return
	}
	list, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []store.Dataset{}
	}
	s.writeJSON(w, r, http.StatusOK, list)
}

func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	ds, err := s.dataset(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, ds)
}

func (s *Server) handleDeleteDataset(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, xerrors.New(xerrors.ErrCodeUnsupported, "dataset storage is not configured"))
		return
	}
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRenderDataset renders a stored dataset by id.
func (s *Server) handleRenderDataset(w http.ResponseWriter, r *http.Request) {
	ds, err := s.dataset(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, ds.Data, "dataset:"+ds.ID)
}

func (s *Server) dataset(r *http.Request) (*store.Dataset, error) {
	if s.store == nil {
		return nil, xerrors.New(xerrors.ErrCodeUnsupported, "dataset storage is not configured")
	}
	return s.store.Get(r.Context(), chi.URLParam(r, "id"))
}

func readBody(r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, MaxBodyBytes))
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrCodeInvalidInput, err, "reading request body")
	}
	if len(data) == 0 {
		return nil, xerrors.New(xerrors.ErrCodeInvalidInput, "empty request body")
	}
	return data, nil
}

// parseRenderOptions reads pipeline and map options from the query
// string. One format per request keeps the response a single body.
func parseRenderOptions(r *http.Request) (pipeline.Options, string, error) {
	q := r.URL.Query()
	var opts pipeline.Options

	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return opts, "", xerrors.Wrap(xerrors.ErrCodeInvalidFormat, err, "%s", err.Error())
	}
	opts.Formats = []string{format}

	if method := q.Get("method"); method != "" {
		if err := pipeline.ValidateMethod(method); err != nil {
			return opts, "", xerrors.Wrap(xerrors.ErrCodeInvalidOptions, err, "%s", err.Error())
		}
		opts.Method = method
	}

	var err error
	if opts.K, err = intParam(q.Get("k")); err != nil {
		return opts, "", xerrors.Wrap(xerrors.ErrCodeInvalidOptions, err, "invalid k")
	}
	if opts.Snap, err = floatParam(q.Get("snap")); err != nil {
		return opts, "", xerrors.Wrap(xerrors.ErrCodeInvalidOptions, err, "invalid snap")
	}
	opts.Symmetrize = boolParam(q.Get("symmetrize"))
	opts.Refresh = boolParam(q.Get("refresh"))
	opts.Detailed = boolParam(q.Get("detailed"))
	opts.Layout = q.Get("layout")

	if opts.Map.Width, err = intParam(q.Get("width")); err != nil {
		return opts, "", xerrors.Wrap(xerrors.ErrCodeInvalidOptions, err, "invalid width")
	}
	if opts.Map.Height, err = intParam(q.Get("height")); err != nil {
		return opts, "", xerrors.Wrap(xerrors.ErrCodeInvalidOptions, err, "invalid height")
	}
	if nodes := q.Get("nodes"); nodes != "" {
		if err := mapview.ValidateNodes(nodes); err != nil {
			return opts, "", xerrors.Wrap(xerrors.ErrCodeInvalidOptions, err, "%s", err.Error())
		}
		opts.Map.Nodes = nodes
	}
	opts.Map.Title = q.Get("title")
	opts.Map.Subtitle = q.Get("subtitle")
	opts.Map.ConcaveHull = boolParam(q.Get("hull"))
	if opts.Map.HullRatio, err = floatParam(q.Get("ratio")); err != nil {
		return opts, "", xerrors.Wrap(xerrors.ErrCodeInvalidOptions, err, "invalid ratio")
	}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, "", xerrors.Wrap(xerrors.ErrCodeInvalidOptions, err, "%s", err.Error())
	}
	return opts, format, nil
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func floatParam(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func boolParam(s string) bool {
	return s == "true" || s == "1"
}
