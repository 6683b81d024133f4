package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/janhq/jan-crm/internal/application/listctl"
	"github.com/janhq/jan-crm/internal/application/pages"
	"github.com/janhq/jan-crm/internal/interfaces/httpserver/responses"
	"github.com/janhq/jan-crm/internal/utils/platformerrors"
)

// formPage is a list page with a create/edit dialog.
type formPage[F listctl.Form] interface {
	pages.Page
	SetSearch(term string)
	BlankForm() F
	EditForm(id string) (F, bool)
	SubmitDraft(ctx context.Context, editingID string, form F) listctl.Result
	Delete(ctx context.Context, id string) listctl.Result
}

// resource serves the list, create, update and delete routes of one form page.
type resource[F listctl.Form, P formPage[F]] struct {
	ws    *Workspace
	name  pages.Name
	build func(pages.Deps) P
	view  func(P) any
}

func (r resource[F, P]) open(c *gin.Context, refresh bool) (visitor, P, bool) {
	v := r.ws.visitor(c)
	p, ok := enter(r.ws, c, v, r.name, r.build, refresh)
	return v, p, ok
}

func (r resource[F, P]) list(c *gin.Context) {
	v, p, ok := r.open(c, true)
	if !ok {
		return
	}
	if term, ok := c.GetQuery("search"); ok {
		p.SetSearch(term)
	}
	r.ws.respond(c, v, r.view(p))
}

// create binds the body over an empty draft and submits it. The dialog is only
// touched by the submit itself.
func (r resource[F, P]) create(c *gin.Context) {
	v, p, ok := r.open(c, false)
	if !ok {
		return
	}
	form := p.BlankForm()
	if err := c.ShouldBindJSON(&form); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body: "+err.Error(), "5f0c2d7e-8a41-4b39-9e16-3c7d2a9b1e01")
		return
	}
	r.finish(c, v, p, p.SubmitDraft(c.Request.Context(), "", form))
}

// update binds the body over the cached item's draft, so omitted fields keep
// their current values, and submits it against the path id.
func (r resource[F, P]) update(c *gin.Context) {
	v, p, ok := r.open(c, false)
	if !ok {
		return
	}
	id := c.Param("id")
	form, found := p.EditForm(id)
	if !found {
		responses.HandleNewError(c, platformerrors.ErrorTypeNotFound, string(r.name)+" item not found", "5f0c2d7e-8a41-4b39-9e16-3c7d2a9b1e02")
		return
	}
	if err := c.ShouldBindJSON(&form); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body: "+err.Error(), "5f0c2d7e-8a41-4b39-9e16-3c7d2a9b1e03")
		return
	}
	r.finish(c, v, p, p.SubmitDraft(c.Request.Context(), id, form))
}

func (r resource[F, P]) remove(c *gin.Context) {
	v, p, ok := r.open(c, false)
	if !ok {
		return
	}
	r.finish(c, v, p, p.Delete(c.Request.Context(), c.Param("id")))
}

func (r resource[F, P]) finish(c *gin.Context, v visitor, p P, result listctl.Result) {
	responses.Page(c, responses.ResultStatus(result), &result, r.view(p), r.ws.drain(c, v))
}
