package source

import (
	"encoding/json"
	"os"
	"sort"
	"strings"
)

type liveDataDevice struct {
	Points []struct {
		Name  string      `json:"name"`
		Value interface{} `json:"value"`
	} `json:"points"`
}

// LoadLiveData reads a livedata capture ({device_id: {points: [...]}}) and
// returns the set of point names present in the vocabulary.
func LoadLiveData(path string) (map[string]struct{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	var devices map[string]liveDataDevice
	if err := json.Unmarshal(data, &devices); err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	points := make(map[string]struct{})
	for _, device := range devices {
		for _, p := range device.Points {
			if p.Name != "" {
				points[p.Name] = struct{}{}
			}
		}
	}
	return points, nil
}

type feedsFile struct {
	Feeds map[string]struct {
		Datastreams map[string]struct {
			Title string `json:"title"`
			Units string `json:"units"`
		} `json:"datastreams"`
	} `json:"feeds"`
}

// LoadFeeds reads a feeds capture and returns per-point title/unit metadata.
// Feeds are walked in sorted key order and the first to declare a point wins,
// so repeated loads of the same capture always pick the same metadata.
func LoadFeeds(path, origin string) (map[string]FeedMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	var file feedsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	feedKeys := make([]string, 0, len(file.Feeds))
	for key := range file.Feeds {
		feedKeys = append(feedKeys, key)
	}
	sort.Strings(feedKeys)
	feeds := make(map[string]FeedMeta)
	for _, key := range feedKeys {
		feed := file.Feeds[key]
		for name, stream := range feed.Datastreams {
			if _, seen := feeds[name]; seen {
				continue
			}
			feeds[name] = FeedMeta{
				Title:  strings.TrimSpace(stream.Title),
				Unit:   strings.TrimSpace(stream.Units),
				Origin: origin,
			}
		}
	}
	return feeds, nil
}

type statusFile struct {
	Keys map[string]struct {
		Label string      `json:"label"`
		Value interface{} `json:"value"`
	} `json:"keys"`
}

// LoadStatus reads a status capture and returns its diagnostic points with
// dotted keys flattened to underscores.
func LoadStatus(path string) ([]StatusPoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	var file statusFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	points := make([]StatusPoint, 0, len(file.Keys))
	for key, info := range file.Keys {
		example := ""
		if s, ok := info.Value.(string); ok {
			example = s
		}
		points = append(points, StatusPoint{
			Name:    strings.ReplaceAll(key, ".", "_"),
			Label:   strings.TrimSpace(info.Label),
			Example: example,
		})
	}
	return points, nil
}
