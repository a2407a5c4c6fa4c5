package tag

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/tagmi/tagmi/internal/platform/request"
	"github.com/tagmi/tagmi/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes is mounted under /groups/{groupID}/tags; chi carries the parent
// groupID parameter through the mount.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.list)
	router.Post("/", handler.add)
	router.Delete("/{tagID}", handler.remove)
	return router
}

type addTagRequest struct {
	Name string `json:"name"`
}

func (handler *Handler) add(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload addTagRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.AddTag(request.Context(), requestutil.ID(request, "groupID"), userID, payload.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	body := map[string]interface{}{
		"tag":     result.Tag,
		"message": result.Message,
	}
	if result.Created {
		respond.Created(writer, body)
		return
	}
	respond.OK(writer, body)
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tags, err := handler.service.ListVocabulary(request.Context(), requestutil.ID(request, "groupID"), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tags)
}

func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	message, err := handler.service.RemoveTag(request.Context(),
		requestutil.ID(request, "groupID"), userID, requestutil.ID(request, "tagID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]string{"message": message})
}
