package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/locus-group/facility-cli/internal/centroid"
	"github.com/locus-group/facility-cli/internal/mapview"
	"github.com/locus-group/facility-cli/internal/marker"
	"github.com/locus-group/facility-cli/internal/model"
	"github.com/locus-group/facility-cli/internal/reconcile"
	"github.com/locus-group/facility-cli/internal/session"
	"github.com/locus-group/facility-cli/internal/table"
	"github.com/locus-group/facility-cli/internal/topsis"
)

func (h *Handler) createSession(w http.ResponseWriter, _ *http.Request) {
	sess := h.store.Create()
	zap.L().Info("session created", zap.String("session", sess.ID))
	writeJSON(w, http.StatusCreated, sess)
}

func (h *Handler) loadSession(w http.ResponseWriter, r *http.Request) (session.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, ok := h.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return session.Session{}, false
	}
	return sess, true
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	h.store.Delete(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// replacePointsRequest carries a raw table from the external table editor.
type replacePointsRequest struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Mode    string     `json:"mode"` // "centroid" (default) or "topsis"
}

func (h *Handler) replacePoints(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	var req replacePointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	frame := table.Frame{Columns: req.Columns, Rows: req.Rows}
	if req.Mode == "topsis" {
		points, names := table.NormalizeCriteria(frame)
		for _, name := range names {
			sess.Criteria.Ensure(name)
		}
		sess.Criteria.Prune(names)
		sess.Points = points
	} else {
		sess.Points = table.Normalize(frame)
	}

	// Table edits invalidate the marker snapshot so the next map sync
	// re-reconciles.
	sess.MarkerSnapshot = ""
	h.store.Put(sess)

	writeJSON(w, http.StatusOK, sess)
}

type appendPointRequest struct {
	Longitude     float64  `json:"longitude"`
	Latitude      float64  `json:"latitude"`
	TransportRate *float64 `json:"transport_rate"`
	Mass          *float64 `json:"mass"`
}

func (h *Handler) appendPoint(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	var req appendPointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	pos := model.Position{Lon: req.Longitude, Lat: req.Latitude}
	if !pos.Finite() {
		writeError(w, http.StatusBadRequest, "longitude and latitude must be finite")
		return
	}

	p := model.Point{
		Lon:           req.Longitude,
		Lat:           req.Latitude,
		TransportRate: sess.DefaultRate,
		Mass:          sess.DefaultMass,
	}
	if req.TransportRate != nil {
		p.TransportRate = *req.TransportRate
	}
	if req.Mass != nil {
		p.Mass = *req.Mass
	}

	sess.Points = append(sess.Points, p)
	sess.MarkerSnapshot = ""
	h.store.Put(sess)

	writeJSON(w, http.StatusOK, sess)
}

type syncMarkersResponse struct {
	Changed bool            `json:"changed"`
	Session session.Session `json:"session"`
}

// syncMarkers reconciles the session's point table against redrawn map
// geometry. A payload whose marker positions match the stored snapshot is a
// no-op, which avoids redundant reconcile/re-render cycles.
func (h *Handler) syncMarkers(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable request body")
		return
	}

	positions := marker.Positions(body)
	signature := model.PositionSignature(positions)
	if sess.MarkerSnapshot != "" && signature == sess.MarkerSnapshot {
		writeJSON(w, http.StatusOK, syncMarkersResponse{Changed: false, Session: sess})
		return
	}

	defaults := reconcile.Defaults{
		TransportRate: sess.DefaultRate,
		Mass:          sess.DefaultMass,
		Criteria:      criteriaDefaults(sess.Criteria),
	}
	sess.Points = reconcile.Reconcile(sess.Points, positions, defaults)
	sess.MarkerSnapshot = signature
	h.store.Put(sess)

	zap.L().Debug("markers reconciled",
		zap.String("session", sess.ID),
		zap.Int("markers", len(positions)),
		zap.Int("points", len(sess.Points)),
	)
	writeJSON(w, http.StatusOK, syncMarkersResponse{Changed: true, Session: sess})
}

func criteriaDefaults(cs model.CriteriaSet) map[string]float64 {
	if len(cs) == 0 {
		return nil
	}
	out := make(map[string]float64, len(cs))
	for name, cfg := range cs {
		out[name] = cfg.Default
	}
	return out
}

type centroidResponse struct {
	X                   float64        `json:"x"`
	Y                   float64        `json:"y"`
	WeightedDistanceSum float64        `json:"weighted_distance_sum"`
	UsedFallbackAverage bool           `json:"used_fallback_average"`
	NeedsInput          bool           `json:"needs_input"`
	Breakdown           []breakdownRow `json:"breakdown"`
	MapCenter           model.Position `json:"map_center"`
	Polyline            [][]float64    `json:"polyline"`
}

type breakdownRow struct {
	Longitude        float64 `json:"longitude"`
	Latitude         float64 `json:"latitude"`
	TransportRate    float64 `json:"transport_rate"`
	Mass             float64 `json:"mass"`
	Weight           float64 `json:"weight"`
	Distance         float64 `json:"euclidean_distance"`
	WeightedDistance float64 `json:"weighted_euclidean_distance"`
}

func (h *Handler) getCentroid(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	res := centroid.Compute(sess.Points)
	rows := centroid.Breakdown(sess.Points, res.X, res.Y)

	resp := centroidResponse{
		X:                   round6(res.X),
		Y:                   round6(res.Y),
		WeightedDistanceSum: round6(res.WeightedDistanceSum),
		UsedFallbackAverage: res.UsedFallbackAverage,
		NeedsInput:          len(sess.Points) == 0,
		Breakdown:           make([]breakdownRow, 0, len(rows)),
		MapCenter: mapview.Center(
			sess.Points,
			model.Position{Lon: res.X, Lat: res.Y},
			model.Position{Lon: h.cfg.Map.CenterLon, Lat: h.cfg.Map.CenterLat},
		),
		Polyline: mapview.PolylinePath(sess.Points),
	}
	for _, row := range rows {
		resp.Breakdown = append(resp.Breakdown, breakdownRow{
			Longitude:        row.Point.Lon,
			Latitude:         row.Point.Lat,
			TransportRate:    row.Point.TransportRate,
			Mass:             row.Point.Mass,
			Weight:           round6(row.Weight),
			Distance:         round6(row.Distance),
			WeightedDistance: round6(row.WeightedDistance),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

type topsisRequest struct {
	Criteria []topsisCriterion `json:"criteria"`
}

type topsisCriterion struct {
	Name    string   `json:"name"`
	Weight  *float64 `json:"weight"`
	Impact  string   `json:"impact"`
	Default *float64 `json:"default"`
}

type topsisResponse struct {
	NeedsInput bool           `json:"needs_input"`
	Criteria   []string       `json:"criteria"`
	Weights    []float64      `json:"weights"`
	Impacts    []model.Impact `json:"impacts"`
	Rows       []topsisRow    `json:"rows"`
	Decision   [][]float64    `json:"decision_matrix"`
	Normalized [][]float64    `json:"normalized_matrix"`
	Weighted   [][]float64    `json:"weighted_matrix"`
	IdealBest  []float64      `json:"ideal_best"`
	IdealWorst []float64      `json:"ideal_worst"`
}

type topsisRow struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Score     float64 `json:"topsis_score"`
	Rank      int     `json:"topsis_rank"`
}

func (h *Handler) rankTopsis(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	var req topsisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	selected := make([]string, 0, len(req.Criteria))
	for _, c := range req.Criteria {
		cfg := sess.Criteria.Ensure(c.Name)
		if c.Weight != nil {
			cfg.Weight = *c.Weight
		}
		if c.Impact != "" {
			cfg.Impact = model.ParseImpact(c.Impact)
		}
		if c.Default != nil {
			cfg.Default = *c.Default
		}
		sess.Criteria.Set(c.Name, cfg)
		selected = append(selected, c.Name)
	}
	h.store.Put(sess)

	ranking := topsis.Rank(sess.Points, selected, sess.Criteria)

	resp := topsisResponse{
		NeedsInput: ranking.Empty(),
		Criteria:   ranking.Criteria,
		Weights:    round6Slice(ranking.Weights),
		Impacts:    ranking.Impacts,
		Rows:       make([]topsisRow, 0, len(ranking.Rows)),
		Decision:   round6Matrix(ranking.Decision),
		Normalized: round6Matrix(ranking.Normalized),
		Weighted:   round6Matrix(ranking.Weighted),
		IdealBest:  round6Slice(ranking.IdealBest),
		IdealWorst: round6Slice(ranking.IdealWorst),
	}
	for _, row := range ranking.Rows {
		resp.Rows = append(resp.Rows, topsisRow{
			Longitude: row.Point.Lon,
			Latitude:  row.Point.Lat,
			Score:     round6(row.Score),
			Rank:      row.Rank,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
