package handler

import (
	"net/http"

	deliverycontext "quill/internal/delivery/context"
	"quill/internal/delivery/http/response"
	"quill/internal/errors"
	"quill/internal/usecase"

	"github.com/labstack/echo/v4"
)

// PostHandler serves post CRUD. Reads are public; writes need a token.
type PostHandler struct {
	uc usecase.PostUsecase
}

func NewPostHandler(uc usecase.PostUsecase) *PostHandler {
	return &PostHandler{uc: uc}
}

// List renders the page envelope {data, meta} as the response data.
func (h *PostHandler) List(c echo.Context) error {
	var input usecase.ListPostsInput
	if err := bindAndValidate(c, &input); err != nil {
		return err
	}

	page, err := h.uc.List(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, page, "")
}

func (h *PostHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	view, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, view, "")
}

func (h *PostHandler) Create(c echo.Context) error {
	var input usecase.CreatePostInput
	if err := bindAndValidate(c, &input); err != nil {
		return err
	}

	view, err := h.uc.Create(c.Request().Context(), deliverycontext.GetSubject(c), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, view, "Post created successfully")
}

func (h *PostHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var input usecase.UpdatePostInput
	if err := bindAndValidate(c, &input); err != nil {
		return err
	}

	view, err := h.uc.Update(c.Request().Context(), deliverycontext.GetSubject(c), id, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, view, "Post updated successfully")
}

func (h *PostHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	output, err := h.uc.Delete(c.Request().Context(), deliverycontext.GetSubject(c), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, output.Message)
}
