/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/tomoncle/bookstore/controller"
	"github.com/tomoncle/bookstore/models"
	"github.com/tomoncle/bookstore/repository"
	"github.com/tomoncle/bookstore/types"
)

// resource serves the five CRUD routes of one entity. V is the response view
// of M.
type resource[M any, C repository.CreateShape[M], U repository.UpdateShape[M], V any] struct {
	ctrl          controller.Controller[M, C, U]
	view          func(*M) *V
	deletedDetail string
}

// mount registers list/create under prefix and get/update/delete under
// prefix/:id, using updateMethod (PUT or PATCH) for updates.
func (r *resource[M, C, U, V]) mount(g *echo.Group, updateMethod string) {
	g.GET("", r.list)
	g.POST("", r.create)
	g.GET("/:id", r.get)
	g.Add(updateMethod, "/:id", r.update)
	g.DELETE("/:id", r.delete)
}

func (r *resource[M, C, U, V]) list(c echo.Context) error {
	page, err := queryInt(c, "page", types.DefaultPage)
	if err != nil {
		return err
	}
	size, err := queryInt(c, "size", types.DefaultPageSize)
	if err != nil {
		return err
	}
	p, err := r.ctrl.GetPaginated(c.Request().Context(), page, size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, types.MapPagination(p, r.view))
}

func (r *resource[M, C, U, V]) create(c echo.Context) error {
	var body C
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}
	m, err := r.ctrl.Create(c.Request().Context(), body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, r.view(m))
}

func (r *resource[M, C, U, V]) get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	m, err := r.ctrl.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if m == nil {
		return repository.ErrNotFound
	}
	return c.JSON(http.StatusOK, r.view(m))
}

func (r *resource[M, C, U, V]) update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var body U
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}
	m, err := r.ctrl.Update(c.Request().Context(), id, body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r.view(m))
}

func (r *resource[M, C, U, V]) delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := r.ctrl.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.DeletedMessage{Message: r.deletedDetail})
}

func bindAndValidate(c echo.Context, body interface{}) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, body); err != nil {
		return badRequest("malformed request body")
	}
	return c.Validate(body)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, badRequest("id must be an integer")
	}
	return id, nil
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest(name + " must be an integer")
	}
	return n, nil
}
