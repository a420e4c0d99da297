// Package http provides http transport for wiki publishing
package http

import (
	stdhttp "net/http"

	"wikipub/internal/modkit/httpkit"
	"wikipub/internal/platform/logger"
	"wikipub/internal/services/wiki/domain"
)

// Register mounts the publish and copy routes
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.PublishInput](r, "/publish", h.publish)
	httpkit.PostJSON[domain.CopyInput](r, "/copy", h.copy)
}

type handlers struct{ svc domain.ServicePort }

// swagger:route POST /wiki/publish Wiki publish
// @Summary Render content and stage it on the account sandbox page
// @Tags wiki
// @Accept json
// @Produce json
// @Param payload body domain.PublishInput true "Publish"
// @Success 200 {object} domain.PublishOutput "ok"
// @Failure 400 {object} httpkit.Envelope "validation"
// @Failure 500 {object} httpkit.Envelope "wiki failure; data holds the partial result"
// @Failure 503 {object} httpkit.Envelope "credentials not configured"
// @Router /wiki/publish [post]
func (h *handlers) publish(r *stdhttp.Request, in domain.PublishInput) (any, error) {
	logger.C(r.Context()).Info().Str("caller", httpkit.Caller(r)).Str("title", in.Title).Msg("publish requested")
	out, err := h.svc.Publish(r.Context(), in)
	return partial(out, out.OperationID, err)
}

// swagger:route POST /wiki/copy Wiki copy
// @Summary Copy the latest revision of one page onto another
// @Tags wiki
// @Accept json
// @Produce json
// @Param payload body domain.CopyInput true "Copy"
// @Success 200 {object} domain.CopyOutput "ok"
// @Failure 400 {object} httpkit.Envelope "validation"
// @Failure 404 {object} httpkit.Envelope "source missing"
// @Failure 422 {object} httpkit.Envelope "source is a redirect"
// @Router /wiki/copy [post]
func (h *handlers) copy(r *stdhttp.Request, in domain.CopyInput) (any, error) {
	logger.C(r.Context()).Info().Str("caller", httpkit.Caller(r)).Str("from", in.From).Str("to", in.To).Msg("copy requested")
	out, err := h.svc.Copy(r.Context(), in)
	return partial(out, out.OperationID, err)
}

// partial keeps what a started operation reported, such as a minted bot
// password, in the data of the error envelope
func partial(out any, opID string, err error) (any, error) {
	if err != nil && opID != "" {
		return httpkit.Response{Body: err, Detail: out}, nil
	}
	return out, err
}

