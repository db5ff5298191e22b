package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/chat-sync/internal/config"
	api "github.com/s21platform/chat-sync/internal/generated"
	"github.com/s21platform/chat-sync/internal/model"
	"github.com/s21platform/chat-sync/internal/session"
)

const maxImageSize = 10 << 20

type Handler struct {
	sessions     SessionProvider
	jwtGenerator JWTGenerator
}

func New(sessions SessionProvider, jwtGenerator JWTGenerator) *Handler {
	return &Handler{
		sessions:     sessions,
		jwtGenerator: jwtGenerator,
	}
}

func (h *Handler) MountSession(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("MountSession")

	identity, ok := r.Context().Value(config.KeyIdentity).(model.Identity)
	if !ok {
		logger.Error("failed to get identity")
		h.writeError(w, "failed to get identity", http.StatusInternalServerError)
		return
	}

	if _, err := h.sessions.Mount(r.Context(), identity); err != nil {
		logger.Error(fmt.Sprintf("failed to mount session: %v", err))
		h.writeError(w, fmt.Sprintf("failed to mount session: %v", err), http.StatusInternalServerError)
		return
	}

	token, expiresAt, err := h.jwtGenerator.GenerateSessionToken(identity)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to generate session token: %v", err))
		h.writeError(w, fmt.Sprintf("failed to generate session token: %v", err), http.StatusInternalServerError)
		return
	}

	logger.Info(fmt.Sprintf("session mounted for user %s", identity.ID))

	h.writeJSON(w, api.SessionResponse{
		UserId:    identity.ID,
		Token:     token,
		ExpiresAt: expiresAt,
	}, http.StatusOK)
}

func (h *Handler) UnmountSession(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("UnmountSession")

	userUUID, ok := r.Context().Value(config.KeyUUID).(string)
	if !ok {
		logger.Error("failed to get user UUID")
		h.writeError(w, "failed to get user UUID", http.StatusInternalServerError)
		return
	}

	if err := h.sessions.Unmount(r.Context(), userUUID); err != nil {
		logger.Error(fmt.Sprintf("failed to unmount session: %v", err))
		h.writeError(w, fmt.Sprintf("failed to unmount session: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("GetView")

	sess, ok := h.session(w, r, logger)
	if !ok {
		return
	}

	view, err := sess.View(r.Context())
	if err != nil {
		logger.Error(fmt.Sprintf("failed to read view: %v", err))
		h.writeActionError(w, err)
		return
	}

	h.writeJSON(w, view, http.StatusOK)
}

func (h *Handler) CreateChannel(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("CreateChannel")

	var req api.CreateChannelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sess, ok := h.session(w, r, logger)
	if !ok {
		return
	}

	ch, err := sess.CreateChannel(r.Context(), req.Name, req.Details)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to create channel: %v", err))
		h.writeActionError(w, err)
		return
	}

	h.writeJSON(w, api.Channel{
		Id:      ch.ID,
		Name:    ch.Name,
		Details: ch.Details,
		CreatedBy: &api.Creator{
			Name:   ch.CreatedBy.Name,
			Avatar: ch.CreatedBy.Avatar,
		},
	}, http.StatusOK)
}

func (h *Handler) ChangeChannel(w http.ResponseWriter, r *http.Request, channelId string) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("ChangeChannel")

	sess, ok := h.session(w, r, logger)
	if !ok {
		return
	}

	if err := sess.ChangeChannel(r.Context(), channelId); err != nil {
		logger.Error(fmt.Sprintf("failed to change channel to %s: %v", channelId, err))
		h.writeActionError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) OpenPrivateChannel(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("OpenPrivateChannel")

	var req api.OpenPrivateChannelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sess, ok := h.session(w, r, logger)
	if !ok {
		return
	}

	if err := sess.OpenPrivateChannel(r.Context(), req.UserId, req.Name); err != nil {
		logger.Error(fmt.Sprintf("failed to open private channel with %s: %v", req.UserId, err))
		h.writeActionError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ToggleStar(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("ToggleStar")

	sess, ok := h.session(w, r, logger)
	if !ok {
		return
	}

	starred, err := sess.ToggleStar(r.Context())
	if err != nil {
		logger.Error(fmt.Sprintf("failed to toggle star: %v", err))
		h.writeActionError(w, err)
		return
	}

	h.writeJSON(w, api.StarResponse{Starred: starred}, http.StatusOK)
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("SendMessage")

	var req api.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sess, ok := h.session(w, r, logger)
	if !ok {
		return
	}

	if err := sess.SendMessage(r.Context(), req.Content); err != nil {
		logger.Error(fmt.Sprintf("failed to send message: %v", err))
		h.writeActionError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SendImage(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("SendImage")

	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		logger.Error(fmt.Sprintf("failed to read file: %v", err))
		h.writeError(w, "invalid file", http.StatusBadRequest)
		return
	}
	defer file.Close() //nolint:errcheck // .

	sess, ok := h.session(w, r, logger)
	if !ok {
		return
	}

	if err := sess.SendImage(r.Context(), file, header.Header.Get("Content-Type")); err != nil {
		logger.Error(fmt.Sprintf("failed to send image: %v", err))
		h.writeActionError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("UpdateAvatar")

	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		logger.Error(fmt.Sprintf("failed to read file: %v", err))
		h.writeError(w, "invalid file", http.StatusBadRequest)
		return
	}
	defer file.Close() //nolint:errcheck // .

	sess, ok := h.session(w, r, logger)
	if !ok {
		return
	}

	url, err := sess.UpdateAvatar(r.Context(), file, header.Header.Get("Content-Type"))
	if err != nil {
		logger.Error(fmt.Sprintf("failed to update avatar: %v", err))
		h.writeActionError(w, err)
		return
	}

	h.writeJSON(w, api.AvatarResponse{Avatar: url}, http.StatusOK)
}

func (h *Handler) SetTyping(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("SetTyping")

	var req api.TypingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sess, ok := h.session(w, r, logger)
	if !ok {
		return
	}

	if err := sess.SetTyping(r.Context(), req.Input); err != nil {
		logger.Error(fmt.Sprintf("failed to set typing: %v", err))
		h.writeActionError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SearchMessages(w http.ResponseWriter, r *http.Request, params api.SearchMessagesParams) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("SearchMessages")

	sess, ok := h.session(w, r, logger)
	if !ok {
		return
	}

	term := ""
	if params.Term != nil {
		term = *params.Term
	}

	messages, err := sess.Search(r.Context(), term)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to search messages: %v", err))
		h.writeActionError(w, err)
		return
	}

	apiMessages := make([]api.Message, len(messages))
	for i, msg := range messages {
		apiMessages[i] = toAPIMessage(msg)
	}

	h.writeJSON(w, api.SearchResponse{
		Term:     term,
		Messages: apiMessages,
	}, http.StatusOK)
}

// ----------------------------- helpers -----------------------------

func (h *Handler) session(w http.ResponseWriter, r *http.Request, logger logger_lib.LoggerInterface) (ChatSession, bool) {
	userUUID, ok := r.Context().Value(config.KeyUUID).(string)
	if !ok {
		logger.Error("failed to get user UUID")
		h.writeError(w, "failed to get user UUID", http.StatusInternalServerError)
		return nil, false
	}

	sess, ok := h.sessions.Lookup(userUUID)
	if !ok {
		logger.Error(fmt.Sprintf("no session mounted for user %s", userUUID))
		h.writeError(w, "session is not mounted", http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

func toAPIMessage(msg model.Message) api.Message {
	out := api.Message{
		Timestamp: msg.Timestamp,
		User: api.User{
			Id:     msg.User.ID,
			Name:   msg.User.Name,
			Avatar: msg.User.Avatar,
		},
	}
	if msg.IsImage() {
		image := msg.Image
		out.Image = &image
	} else {
		content := msg.Content
		out.Content = &content
	}
	return out
}

func (h *Handler) writeActionError(w http.ResponseWriter, err error) {
	var (
		validationErr *model.ValidationError
		uploadErr     *model.UploadError
		feedErr       *model.FeedError
	)
	switch {
	case errors.As(err, &validationErr):
		h.writeError(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &uploadErr), errors.As(err, &feedErr):
		h.writeError(w, err.Error(), http.StatusBadGateway)
	case errors.Is(err, session.ErrClosed):
		h.writeError(w, "session is closed", http.StatusGone)
	default:
		h.writeError(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(api.Error{Error: message})
}
