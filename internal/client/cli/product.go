package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gowear/gowear/internal/client/api"
)

func (a *App) ListProducts(ctx context.Context) error {
	filter := api.ProductFilter{}

	category, err := GetSimpleText(a.reader, "Category (empty for all)", a.out)
	if err != nil {
		return err
	}
	filter.Category = category

	if category != "" {
		sub, err := GetSimpleText(a.reader, "Sub-category (empty for all)", a.out)
		if err != nil {
			return err
		}
		filter.SubCategory = sub
	}

	products, total, err := a.client.ListProducts(ctx, filter)
	if err != nil {
		printlnFn("Could not list products:", err.Error())
		return err
	}

	if len(products) == 0 {
		printlnFn("No products found.")
		return nil
	}

	printlnFn(fmt.Sprintf("%d of %d products:", len(products), total))
	for _, p := range products {
		printlnFn(fmt.Sprintf("  %s | %s / %s | %.2f | %s", p.Title, p.Category, p.SubCategory, p.Price, p.ID))
	}
	return nil
}

// AddProduct collects the listing form and uploads the product with its
// images in one multipart request.
func (a *App) AddProduct(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Log in first.")
		return nil
	}

	title, err := GetSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	description, err := GetMultiline(a.reader, "Description (finish with an empty line)", a.out)
	if err != nil {
		return err
	}
	category, err := GetSimpleText(a.reader, "Category", a.out)
	if err != nil {
		return err
	}
	sub, err := GetSimpleText(a.reader, "Sub-category", a.out)
	if err != nil {
		return err
	}
	priceText, err := GetSimpleText(a.reader, "Price", a.out)
	if err != nil {
		return err
	}
	price, err := strconv.ParseFloat(priceText, 64)
	if err != nil {
		printlnFn("Price must be a number.")
		return nil
	}

	paths, err := GetSimpleText(a.reader, "Image files (comma separated paths)", a.out)
	if err != nil {
		return err
	}

	var images []api.ImageFile
	var files []*os.File
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	for _, p := range strings.Split(paths, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		f, err := os.Open(p)
		if err != nil {
			printlnFn("Could not open image:", err.Error())
			return nil
		}
		files = append(files, f)

		contentType := mime.TypeByExtension(filepath.Ext(p))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		images = append(images, api.ImageFile{
			Name:        filepath.Base(p),
			ContentType: contentType,
			Body:        f,
		})
	}

	in := api.ProductInput{
		Title:       title,
		Description: description,
		Category:    category,
		SubCategory: sub,
		Price:       price,
	}

	product, err := a.client.AddProduct(ctx, a.session.AccessToken(), in, images)
	if err != nil {
		printlnFn("Could not add product:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Product %q added with id %s.", product.Title, product.ID))
	return nil
}
