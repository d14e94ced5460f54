package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/cm2kit/pkg/buildinfo"
	"github.com/matzehuels/cm2kit/pkg/circuit"
	"github.com/matzehuels/cm2kit/pkg/errors"
	"github.com/matzehuels/cm2kit/pkg/generators"
	"github.com/matzehuels/cm2kit/pkg/httputil"
	cmio "github.com/matzehuels/cm2kit/pkg/io"
	"github.com/matzehuels/cm2kit/pkg/manifest"
	"github.com/matzehuels/cm2kit/pkg/pipeline"
	"github.com/matzehuels/cm2kit/pkg/store"
)

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}

// KindInfo describes one block kind.
type KindInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// BuildingInfo describes one building kind with a known slot layout.
type BuildingInfo struct {
	Kind  string         `json:"kind"`
	Slots int            `json:"slots"`
	Ports map[string]int `json:"ports"`
}

// KindsResponse is the body of GET /v1/kinds.
type KindsResponse struct {
	Blocks     []KindInfo     `json:"blocks"`
	Buildings  []BuildingInfo `json:"buildings"`
	Generators []string       `json:"generators"`
}

func (s *Server) handleKinds(w http.ResponseWriter, r *http.Request) {
	var resp KindsResponse
	for _, k := range circuit.Kinds() {
		resp.Blocks = append(resp.Blocks, KindInfo{ID: int(k), Name: k.String()})
	}
	for _, name := range circuit.BuildingKinds() {
		spec, _ := circuit.LookupBuilding(name)
		resp.Buildings = append(resp.Buildings, BuildingInfo{Kind: spec.Kind, Slots: spec.Slots, Ports: spec.Ports})
	}
	resp.Generators = generators.Names()
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// CompileResponse is the body of POST /v1/compile. Saved is set when the
// request asked to store the result.
type CompileResponse struct {
	*pipeline.Result
	Saved string `json:"saved,omitempty"`
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := manifest.FormatTOML
	if v := q.Get("format"); v != "" {
		f, err := manifest.ParseFormat(v)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		format = f
	}
	save := q.Get("save")
	if save != "" {
		if s.Store == nil {
			httputil.WriteError(w, errors.New(errors.ErrCodeInvalidName, "no artifact store configured"))
			return
		}
		if err := store.ValidateName(save); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}
	refresh, _ := strconv.ParseBool(q.Get("refresh"))

	body, err := httputil.ReadBody(w, r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	res, err := s.Runner.Compile(r.Context(), body, pipeline.Options{Format: format, Refresh: refresh})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := CompileResponse{Result: res}
	if save != "" {
		a := store.Artifact{Name: save, Savestring: res.Savestring, Hash: res.Hash, CreatedAt: time.Now().UTC()}
		if err := s.Store.Put(r.Context(), a); err != nil {
			s.fail(w, r, err)
			return
		}
		resp.Saved = save
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	body, err := httputil.ReadBody(w, r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	m, err := s.Runner.Decode(r.Context(), strings.TrimSpace(string(body)))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, cmio.FromModule(m))
}

func (s *Server) handleListArtifacts(w http.ResponseWriter, r *http.Request) {
	list, err := s.Store.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if list == nil {
		list = []store.Artifact{}
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetArtifact(w http.ResponseWriter, r *http.Request) {
	a, err := s.Store.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}

// fail writes err and logs it when it is a server-side failure.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status := httputil.WriteError(w, err); status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
}
