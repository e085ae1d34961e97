package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"evenza/config"
	"evenza/pkg/app_errors"
)

// ImageUploader 活動封面圖上傳。必須整個成功才能寫入引用其結果的活動紀錄。
type ImageUploader interface {
	// Upload 上傳 base64 編碼的圖片,回傳公開 URL
	Upload(ctx context.Context, imageBase64 string) (string, error)
}

type ImgbbUploader struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewImgbbUploader(cfg *config.UploadConfig) *ImgbbUploader {
	return &ImgbbUploader{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type imgbbResponse struct {
	Data struct {
		URL string `json:"url"`
	} `json:"data"`
}

func (u *ImgbbUploader) Upload(ctx context.Context, imageBase64 string) (string, error) {
	if u.apiKey == "" {
		return "", fmt.Errorf("%w: missing imgbb api key", app_errors.ErrImageUploadFailed)
	}

	form := url.Values{}
	form.Set("image", imageBase64)

	endpoint := fmt.Sprintf("%s?key=%s", u.endpoint, url.QueryEscape(u.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", app_errors.ErrImageUploadFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", app_errors.ErrImageUploadFailed, err)
	}
	defer resp.Body.Close()

	var parsed imgbbResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: %v", app_errors.ErrImageUploadFailed, err)
	}
	if resp.StatusCode != http.StatusOK || parsed.Data.URL == "" {
		return "", fmt.Errorf("%w: status %d", app_errors.ErrImageUploadFailed, resp.StatusCode)
	}

	return parsed.Data.URL, nil
}
