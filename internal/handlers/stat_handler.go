package handlers

import (
	"net/http"
	"strconv"

	"keenpages/internal/apperr"
	"keenpages/internal/service"
)

// StatHandler serves the skill progress endpoints
type StatHandler struct {
	statService *service.StatService
}

// NewStatHandler creates a new stat handler
func NewStatHandler(statService *service.StatService) *StatHandler {
	return &StatHandler{statService: statService}
}

// pathID parses a numeric path segment.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.New(apperr.Validation, "Please try your request again, invalid request.")
	}
	return id, nil
}

// GetSingle returns a user's stat, creating an empty one on first
// access. Users can only fetch their own stat unless they are admins.
func (h *StatHandler) GetSingle(w http.ResponseWriter, r *http.Request) {
	ownerID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	user := GetUserFromContext(r.Context())
	if user.ID != ownerID && !user.IsAdmin() {
		respondError(w, apperr.New(apperr.Authorization, "You are unauthorized to make this request."))
		return
	}

	stat, err := h.statService.GetOrCreate(ownerID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Stat retrieved.", stat)
}

// AddSkill adds a skill to the user's stat with an initial snapshot.
func (h *StatHandler) AddSkill(w http.ResponseWriter, r *http.Request) {
	var req addSkillRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user := GetUserFromContext(r.Context())
	stat, err := h.statService.AddSkill(user, service.AddSkillInput{
		StatID:      req.StatID,
		TopicID:     req.Topic,
		TopicName:   req.TopicName,
		Description: req.Description,
		Goal:        req.Goal,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Skill added to your stats.", stat)
}

// GenerateStats recomputes every due skill in the stat and returns the
// updated stat alongside the skills that were not yet due.
func (h *StatHandler) GenerateStats(w http.ResponseWriter, r *http.Request) {
	var req generateStatsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.StatID <= 0 {
		respondError(w, apperr.New(apperr.Validation, "Please try your request again, invalid request."))
		return
	}

	user := GetUserFromContext(r.Context())
	stat, notReady, err := h.statService.Recompute(user, req.StatID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Stats updated.", generateStatsResponse{
		UpdatedStat: stat,
		NotReady:    notReady,
	})
}

// EditSkill edits one skill's description, goal or due date.
func (h *StatHandler) EditSkill(w http.ResponseWriter, r *http.Request) {
	statID, err := pathID(r, "statId")
	if err != nil {
		respondError(w, err)
		return
	}

	var req editSkillRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.SkillID == "" {
		respondError(w, apperr.New(apperr.Validation, "Please try your request again, invalid request."))
		return
	}

	user := GetUserFromContext(r.Context())
	stat, err := h.statService.EditSkill(user, statID, req.SkillID, service.SkillEdits{
		Description:  req.Description,
		Goal:         req.Goal,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Skill updated.", stat)
}

// RemoveSkill deletes one skill from the stat.
func (h *StatHandler) RemoveSkill(w http.ResponseWriter, r *http.Request) {
	statID, err := pathID(r, "statId")
	if err != nil {
		respondError(w, err)
		return
	}
	skillID := r.PathValue("figureId")
	if skillID == "" {
		respondError(w, apperr.New(apperr.Validation, "Please try your request again, invalid request."))
		return
	}

	user := GetUserFromContext(r.Context())
	stat, err := h.statService.RemoveSkill(user, statID, skillID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Skill removed from your stats.", stat)
}
