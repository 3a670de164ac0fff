package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gowear/gowear/internal/common"
	"github.com/gowear/gowear/internal/server/models"
	"github.com/gowear/gowear/internal/server/services"
)

// maxUploadBytes bounds the whole multipart form held in memory per request.
const maxUploadBytes = 32 << 20

func (h *Handlers) addProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, common.NewValidationError(map[string]string{
			"body": "Request must be a multipart form",
		}))
		return
	}

	price, _ := strconv.ParseFloat(r.FormValue("price"), 64)
	in := services.AddProductInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("categorie"),
		SubCategory: r.FormValue("sub_categorie"),
		Price:       price,
	}

	var uploads []services.ImageUpload
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["images"] {
			f, err := fh.Open()
			if err != nil {
				writeError(w, common.ErrorInternal)
				return
			}
			defer f.Close()
			uploads = append(uploads, services.ImageUpload{
				Body:        f,
				ContentType: fh.Header.Get("Content-Type"),
			})
		}
	}

	product, err := h.products.Add(r.Context(), userID(r.Context()), userRole(r.Context()), in, uploads)
	if err != nil {
		writeError(w, err)
		return
	}

	h.log.Info(r.Context(), "product added", "product_id", product.ID, "title", product.Title)
	writeJSON(w, http.StatusCreated, map[string]any{"product": h.productView(product)})
}

func (h *Handlers) showProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	minPrice, _ := strconv.ParseFloat(q.Get("min_price"), 64)
	maxPrice, _ := strconv.ParseFloat(q.Get("max_price"), 64)

	filter := models.ProductFilter{
		Category:    q.Get("categorie"),
		SubCategory: q.Get("sub_categorie"),
		MinPrice:    minPrice,
		MaxPrice:    maxPrice,
		Page:        page,
		PerPage:     perPage,
	}

	list, total, err := h.products.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	views := make([]map[string]any, 0, len(list))
	for _, p := range list {
		views = append(views, h.productView(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": views, "total": total})
}

// productView resolves stored image keys to URLs for the response.
func (h *Handlers) productView(p *models.Product) map[string]any {
	urls := make([]string, 0, len(p.ImageKeys))
	for _, key := range p.ImageKeys {
		urls = append(urls, h.products.ImageURL(key))
	}
	return map[string]any{
		"id":            p.ID,
		"title":         p.Title,
		"description":   p.Description,
		"categorie":     p.Category,
		"sub_categorie": p.SubCategory,
		"price":         p.Price,
		"images":        urls,
		"createdBy":     p.CreatedBy,
		"createdAt":     p.CreatedAt,
	}
}
