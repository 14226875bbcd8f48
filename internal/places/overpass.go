package places

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/serjvanilla/go-overpass"
)

const defaultOverpassURL = "https://overpass-api.de/api/interpreter"

// attractionFilter selects the OSM tourism values treated as attractions.
const attractionFilter = "attraction|museum|viewpoint|zoo|theme_park|gallery|artwork"

// Explorer finds attractions around a point using the Overpass API.
type Explorer struct {
	client  *overpass.Client
	timeout time.Duration
}

// NewExplorer creates an Explorer against endpoint. An empty endpoint uses
// the public overpass-api.de instance.
func NewExplorer(endpoint string, timeout time.Duration) *Explorer {
	if endpoint == "" {
		endpoint = defaultOverpassURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := overpass.NewWithSettings(endpoint, 2, &http.Client{Timeout: timeout})
	return &Explorer{client: &client, timeout: timeout}
}

// Nearby returns named attractions within radiusM metres of (lat, lng),
// sorted by name.
func (e *Explorer) Nearby(ctx context.Context, lat, lng, radiusM float64) ([]Place, error) {
	if radiusM <= 0 {
		radiusM = 5000
	}
	around := fmt.Sprintf("around:%.0f,%f,%f", radiusM, lat, lng)
	query := fmt.Sprintf(`
		[out:json];
		(
			node["tourism"~"%[1]s"](%[2]s);
			way["tourism"~"%[1]s"](%[2]s);
			node["historic"](%[2]s);
		);
		out body;
		>;
		out skel qt;
	`, attractionFilter, around)

	result, err := e.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("nearby attractions: %w", err)
	}
	return toPlaces(result), nil
}

// query runs q, giving up when ctx ends. The underlying client has no
// context support, so an abandoned request finishes in the background.
func (e *Explorer) query(ctx context.Context, q string) (overpass.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	type reply struct {
		res overpass.Result
		err error
	}
	ch := make(chan reply, 1)
	go func() {
		res, err := e.client.Query(q)
		ch <- reply{res, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return overpass.Result{}, fmt.Errorf("overpass query failed: %w", r.err)
		}
		return r.res, nil
	case <-ctx.Done():
		return overpass.Result{}, ctx.Err()
	}
}

func toPlaces(result overpass.Result) []Place {
	var out []Place

	for _, node := range result.Nodes {
		if node.Tags["name"] == "" {
			continue
		}
		out = append(out, Place{
			ID:     string(overpass.ElementTypeNode) + "/" + strconv.FormatInt(node.ID, 10),
			Name:   node.Tags["name"],
			Lat:    node.Lat,
			Lng:    node.Lon,
			Types:  osmTypes(node.Tags),
			Source: "osm",
		})
	}

	for _, way := range result.Ways {
		if way.Tags["name"] == "" || len(way.Nodes) == 0 {
			continue
		}
		var lat, lon float64
		for _, n := range way.Nodes {
			lat += n.Lat
			lon += n.Lon
		}
		count := float64(len(way.Nodes))
		out = append(out, Place{
			ID:     string(overpass.ElementTypeWay) + "/" + strconv.FormatInt(way.ID, 10),
			Name:   way.Tags["name"],
			Lat:    lat / count,
			Lng:    lon / count,
			Types:  osmTypes(way.Tags),
			Source: "osm",
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// osmTypes turns the tags that describe a feature into type keywords
// compatible with BroadCategory.
func osmTypes(tags map[string]string) []string {
	var types []string
	for _, k := range []string{"tourism", "historic", "amenity", "leisure", "natural"} {
		if v := tags[k]; v != "" && v != "yes" {
			types = append(types, v)
		} else if v == "yes" {
			types = append(types, k)
		}
	}
	if tags["historic"] != "" {
		types = append(types, "historical_site")
	}
	return types
}
