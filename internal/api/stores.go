package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"menucli/internal/model"
)

func (c *Client) Store(ctx context.Context, id string) (*model.Store, error) {
	var st model.Store
	if err := c.doJSON(ctx, http.MethodGet, "/stores/"+id, nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// StoreUpdate carries the editable store metadata. Nil fields are left
// untouched by the server.
type StoreUpdate struct {
	Name         *string `json:"name,omitempty"`
	Address      *string `json:"address,omitempty"`
	InstagramURL *string `json:"instagramUrl,omitempty"`
	IfoodURL     *string `json:"ifoodUrl,omitempty"`
	Slug         *string `json:"slug,omitempty"`
}

func (c *Client) UpdateStore(ctx context.Context, id string, upd StoreUpdate) (*model.Store, error) {
	if upd == (StoreUpdate{}) {
		return nil, fmt.Errorf("no fields to update")
	}
	if upd.Name != nil && *upd.Name == "" {
		return nil, fmt.Errorf("store name cannot be empty")
	}
	var st model.Store
	if err := c.doJSON(ctx, http.MethodPatch, "/stores/"+id, upd, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *Client) UpdateStoreStatus(ctx context.Context, id string, status model.StoreStatus) (*model.Store, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid store status: %q", status)
	}
	var st model.Store
	body := map[string]model.StoreStatus{"status": status}
	if err := c.doJSON(ctx, http.MethodPatch, "/stores/"+id+"/status", body, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// ImageUpload names one multipart field for UpdateStoreImages. Field is
// "banner" or "photo"; Name is the client-side filename.
type ImageUpload struct {
	Field string
	Name  string
	Data  io.Reader
}

// UpdateStoreImages uploads banner and/or logo images in one multipart PATCH.
func (c *Client) UpdateStoreImages(ctx context.Context, id string, uploads []ImageUpload) (*model.Store, error) {
	if len(uploads) == 0 {
		return nil, fmt.Errorf("no images to upload")
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		for _, up := range uploads {
			fw, err := mw.CreateFormFile(up.Field, filepath.Base(up.Name))
			if err != nil {
				pw.CloseWithError(err)
				return
			}
			if _, err := io.Copy(fw, up.Data); err != nil {
				pw.CloseWithError(err)
				return
			}
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.url("/stores/"+id+"/images"), pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var st model.Store
	if err := c.do(req, &st); err != nil {
		return nil, err
	}
	return &st, nil
}
