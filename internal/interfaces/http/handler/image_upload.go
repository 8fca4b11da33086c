package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/catalog"
)

// Multipart fields of an image upload: groups[i].colorId carries the color
// of group i, groups[i].images carries its files.
var imageGroupField = regexp.MustCompile(`^groups\[(\d+)\]\.(colorId|images)$`)

// maxImageGroups bounds the group indexes a client may send
const maxImageGroups = 32

// parseImageGroups maps a multipart form onto typed image groups. Files are
// bound to the color named in their own group, never by position.
func parseImageGroups(form *multipart.Form, maxImageSize int64) ([]catalog.ImageGroup, error) {
	if form == nil {
		return nil, fmt.Errorf("no multipart form")
	}

	byIndex := map[int]*catalog.ImageGroup{}
	group := func(field string) (*catalog.ImageGroup, string, bool, error) {
		m := imageGroupField.FindStringSubmatch(field)
		if m == nil {
			return nil, "", false, nil
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil || idx >= maxImageGroups {
			return nil, "", false, fmt.Errorf("invalid image group index in %q", field)
		}
		g, ok := byIndex[idx]
		if !ok {
			g = &catalog.ImageGroup{}
			byIndex[idx] = g
		}
		return g, m[2], true, nil
	}

	for field, values := range form.Value {
		g, kind, ok, err := group(field)
		if err != nil {
			return nil, err
		}
		if !ok || kind != "colorId" || len(values) == 0 {
			continue
		}
		raw := strings.TrimSpace(values[0])
		if raw == "" {
			continue
		}
		colorID, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid color id in %q", field)
		}
		g.ColorID = &colorID
	}

	for field, files := range form.File {
		g, kind, ok, err := group(field)
		if err != nil {
			return nil, err
		}
		if !ok || kind != "images" {
			continue
		}
		for _, fh := range files {
			upload, err := readUpload(fh, maxImageSize)
			if err != nil {
				return nil, err
			}
			g.Images = append(g.Images, upload)
		}
	}

	indexes := make([]int, 0, len(byIndex))
	for idx := range byIndex {
		indexes = append(indexes, idx)
	}
	slices.Sort(indexes)

	groups := make([]catalog.ImageGroup, 0, len(indexes))
	for _, idx := range indexes {
		if g := byIndex[idx]; len(g.Images) > 0 {
			groups = append(groups, *g)
		}
	}
	return groups, nil
}

// readUpload reads at most maxSize+1 bytes so oversize files fail validation
// without being buffered whole.
func readUpload(fh *multipart.FileHeader, maxSize int64) (catalog.UploadedImage, error) {
	f, err := fh.Open()
	if err != nil {
		return catalog.UploadedImage{}, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	var r io.Reader = f
	if maxSize > 0 {
		r = io.LimitReader(f, maxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return catalog.UploadedImage{}, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return catalog.UploadedImage{
		FileName:    fh.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}
