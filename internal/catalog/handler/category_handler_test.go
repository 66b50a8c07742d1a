package handler

import (
	"net/http"

	"github.com/smakki/FinanceManager-sub000/internal/catalog/models"
)

func (s *HandlerSuite) createCategoryOverHTTP(payload map[string]any) models.Category {
	s.T().Helper()
	rec := s.do(http.MethodPost, "/api/v1/categories", payload)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var category models.Category
	s.decode(rec, &category)
	return category
}

func (s *HandlerSuite) TestCategoryRoutes() {
	holder := s.createHolder("Tree owner", 700)

	food := s.createCategoryOverHTTP(map[string]any{
		"registryHolderId": holder.ID,
		"name":             "Food",
		"isExpense":        true,
	})
	s.Nil(food.ParentID)

	groceries := s.createCategoryOverHTTP(map[string]any{
		"registryHolderId": holder.ID,
		"name":             "Groceries",
		"isExpense":        true,
		"parentId":         food.ID,
	})
	s.Require().NotNil(groceries.ParentID)
	s.Equal(food.ID, *groceries.ParentID)

	s.Run("duplicate name under same parent conflicts", func() {
		rec := s.do(http.MethodPost, "/api/v1/categories", map[string]any{
			"registryHolderId": holder.ID,
			"name":             "groceries",
			"isExpense":        true,
			"parentId":         food.ID,
		})
		s.Equal(http.StatusConflict, rec.Code)
		s.Equal("CATEGORY_NAME_EXISTS", s.problemCode(rec))
	})

	s.Run("parent of another holder rejected", func() {
		neighbor := s.createHolder("Neighbor", 701)
		rec := s.do(http.MethodPost, "/api/v1/categories", map[string]any{
			"registryHolderId": neighbor.ID,
			"name":             "Borrowed tree",
			"isExpense":        true,
			"parentId":         food.ID,
		})
		s.Equal(http.StatusConflict, rec.Code)
		s.Equal("CATEGORY_PARENT_INVALID", s.problemCode(rec))
	})

	s.Run("re-parenting onto a descendant refused", func() {
		rec := s.do(http.MethodPut, "/api/v1/categories", map[string]any{
			"id":       food.ID,
			"parentId": groceries.ID,
		})
		s.Equal(http.StatusConflict, rec.Code)
		s.Equal("CATEGORY_PARENT_CYCLE", s.problemCode(rec))
	})

	s.Run("null parentId detaches a child", func() {
		rec := s.doRaw(http.MethodPut, "/api/v1/categories",
			`{"id": "`+groceries.ID.String()+`", "parentId": null}`)
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
		var detached models.Category
		s.decode(rec, &detached)
		s.Nil(detached.ParentID)

		rec = s.do(http.MethodPut, "/api/v1/categories", map[string]any{
			"id":       groceries.ID,
			"parentId": food.ID,
		})
		s.Require().Equal(http.StatusOK, rec.Code, "re-attach for the later subtests")
	})

	s.Run("listing filters by holder and parent", func() {
		rec := s.do(http.MethodGet, "/api/v1/categories?registryHolderId="+holder.ID.String(), nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var mine []models.Category
		s.decode(rec, &mine)
		s.Len(mine, 2)

		rec = s.do(http.MethodGet, "/api/v1/categories?parentId="+food.ID.String(), nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var children []models.Category
		s.decode(rec, &children)
		s.Require().Len(children, 1)
		s.Equal(groceries.ID, children[0].ID)
	})

	s.Run("delete refused while children exist", func() {
		rec := s.do(http.MethodDelete, "/api/v1/categories/"+food.ID.String(), nil)
		s.Equal(http.StatusConflict, rec.Code)
		s.Equal("CATEGORY_IN_USE", s.problemCode(rec))

		rec = s.do(http.MethodDelete, "/api/v1/categories/"+groceries.ID.String(), nil)
		s.Require().Equal(http.StatusNoContent, rec.Code)

		rec = s.do(http.MethodDelete, "/api/v1/categories/"+food.ID.String(), nil)
		s.Equal(http.StatusNoContent, rec.Code)
	})
}

func (s *HandlerSuite) TestCategoryLifecycleRoutes() {
	holder := s.createHolder("Archivist", 710)
	category := s.createCategoryOverHTTP(map[string]any{
		"registryHolderId": holder.ID,
		"name":             "Seasonal",
		"isIncome":         true,
	})

	rec := s.do(http.MethodDelete, "/api/v1/categories/"+category.ID.String()+"/soft", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var gone models.Category
	s.decode(rec, &gone)
	s.True(gone.IsDeleted)

	rec = s.do(http.MethodGet, "/api/v1/categories?registryHolderId="+holder.ID.String(), nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var active []models.Category
	s.decode(rec, &active)
	s.Empty(active)

	rec = s.do(http.MethodGet, "/api/v1/categories?registryHolderId="+holder.ID.String()+"&includeDeleted=true", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var all []models.Category
	s.decode(rec, &all)
	s.Len(all, 1)

	rec = s.do(http.MethodPost, "/api/v1/categories/"+category.ID.String()+"/restore", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var back models.Category
	s.decode(rec, &back)
	s.False(back.IsDeleted)
}
