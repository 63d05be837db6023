// Package holiday answers whether today is a public holiday, using the
// special-day information service of data.go.kr.
package holiday

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultEndpoint = "http://apis.data.go.kr/B090041/openapi/service/SpcdeInfoService/getRestDeInfo"

// DateLayout is the layout of the locdate values returned by the service.
const DateLayout = "20060102"

type Client struct {
	serviceKey string
	endpoint   string
	httpClient *http.Client
}

func NewClient(serviceKey, endpoint string) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		serviceKey: serviceKey,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type restDayResponse struct {
	XMLName xml.Name `xml:"response"`
	Header  struct {
		ResultCode string `xml:"resultCode"`
		ResultMsg  string `xml:"resultMsg"`
	} `xml:"header"`
	Body struct {
		Items struct {
			Item []struct {
				DateName  string `xml:"dateName"`
				IsHoliday string `xml:"isHoliday"`
				Locdate   string `xml:"locdate"`
			} `xml:"item"`
		} `xml:"items"`
		TotalCount int `xml:"totalCount"`
	} `xml:"body"`
}

// Holidays lists the holiday dates (YYYYMMDD) of the given month.
func (c *Client) Holidays(ctx context.Context, year int, month time.Month) ([]string, error) {
	q := url.Values{}
	q.Set("serviceKey", c.serviceKey)
	q.Set("solYear", strconv.Itoa(year))
	q.Set("solMonth", fmt.Sprintf("%02d", int(month)))
	q.Set("numOfRows", "100")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed restDayResponse
	if err := xml.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if parsed.Header.ResultCode != "00" {
		return nil, fmt.Errorf("API result %s: %s", parsed.Header.ResultCode, parsed.Header.ResultMsg)
	}

	dates := make([]string, 0, len(parsed.Body.Items.Item))
	for _, item := range parsed.Body.Items.Item {
		if item.Locdate != "" {
			dates = append(dates, item.Locdate)
		}
	}
	return dates, nil
}
