package basemap

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strconv"
	"time"

	"kiln-detection-service/internal/adapters/httpx"
	"kiln-detection-service/internal/domain"
	"kiln-detection-service/internal/platform/obs"
	"kiln-detection-service/internal/ports"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	DefaultExportURL = "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/export"

	// WGS84 spatial reference id for both the bbox and the output image.
	wgs84SR = "4326"

	maxImageBytes = 32 << 20
)

// EsriExporter implements BasemapFetcher using an ArcGIS MapServer export endpoint.
//
// Each call issues exactly one GET request; failures are not retried.
// The provider is safe for concurrent use.
type EsriExporter struct {
	session  *http.Client
	endpoint string
}

func NewEsriExporter(endpoint string, timeout time.Duration) *EsriExporter {
	if endpoint == "" {
		endpoint = DefaultExportURL
	}
	return &EsriExporter{
		session:  &http.Client{Timeout: timeout},
		endpoint: endpoint,
	}
}

// Fetch exports a sizePixels x sizePixels PNG covering box and decodes it.
func (e *EsriExporter) Fetch(
	ctx context.Context,
	box domain.BoundingBox,
	sizePixels int,
) (_ image.Image, err error) {
	defer obs.Time(ctx, "esri.Fetch")(&err)

	if sizePixels <= 0 {
		return nil, fmt.Errorf("esri fetch: size must be > 0, got %d", sizePixels)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("esri fetch: create request: %w", err)
	}

	size := strconv.Itoa(sizePixels)
	q := req.URL.Query()
	q.Set("bbox", formatBBox(box))
	q.Set("bboxSR", wgs84SR)
	q.Set("size", size+","+size)
	q.Set("imageSR", wgs84SR)
	q.Set("format", "png")
	q.Set("f", "image")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "image/png,image/*")

	resp, err := httpx.Do(e.session, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	// ArcGIS reports some errors as a JSON body with status 200.
	img, format, err := image.Decode(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: decode response (content-type %q): %w", ports.ErrFetchFailed, resp.Header.Get("Content-Type"), err)
	}

	out := imaging.Clone(img)
	if b := out.Bounds(); b.Dx() != sizePixels || b.Dy() != sizePixels {
		obs.Logger().Debugw("resizing basemap", "req_id", obs.RequestID(ctx), "format", format, "got_w", b.Dx(), "got_h", b.Dy(), "want", sizePixels)
		out = imaging.Resize(out, sizePixels, sizePixels, imaging.Lanczos)
	}

	return out, nil
}

func formatBBox(b domain.BoundingBox) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return f(b.West) + "," + f(b.South) + "," + f(b.East) + "," + f(b.North)
}
