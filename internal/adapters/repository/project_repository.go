package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kamal-hamza/vocx/internal/core/domain"
	"github.com/kamal-hamza/vocx/internal/core/ports"
)

// ProjectRepository loads VoTT project files (*.vott) from disk
type ProjectRepository struct{}

func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{}
}

var _ ports.ProjectRepository = (*ProjectRepository)(nil)

type projectFile struct {
	Name             string          `json:"name"`
	Tags             []domain.Tag    `json:"tags"`
	Assets           json.RawMessage `json:"assets"`
	SourceConnection *connectionFile `json:"sourceConnection"`
	TargetConnection *connectionFile `json:"targetConnection"`
}

type connectionFile struct {
	Name            string          `json:"name"`
	ProviderType    string          `json:"providerType"`
	ProviderOptions json.RawMessage `json:"providerOptions"`
}

// Load reads a project file. Assets keep the order they appear in the file.
func (r *ProjectRepository) Load(ctx context.Context, path string) (*domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}

	var raw projectFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse project file %s: %w", path, err)
	}

	assets, err := decodeOrderedAssets(raw.Assets)
	if err != nil {
		return nil, fmt.Errorf("failed to parse assets in %s: %w", path, err)
	}

	baseDir := filepath.Dir(path)
	name := raw.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return &domain.Project{
		Name:             name,
		Tags:             raw.Tags,
		Assets:           assets,
		SourceConnection: raw.SourceConnection.toDomain(baseDir),
		TargetConnection: raw.TargetConnection.toDomain(baseDir),
	}, nil
}

// SaveTags replaces the "tags" array of a project file. Every other value
// is copied through undecoded, so asset order survives a rewrite. Top-level
// keys come out sorted.
func (r *ProjectRepository) SaveTags(ctx context.Context, path string, tags []domain.Tag) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read project file: %w", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse project file %s: %w", path, err)
	}

	if tags == nil {
		tags = []domain.Tag{}
	}
	if doc["tags"], err = json.Marshal(tags); err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("failed to save project file: %w", err)
	}
	return nil
}

// decodeOrderedAssets walks the assets object token by token so insertion
// order survives. A JSON array of assets is accepted as well.
func decodeOrderedAssets(raw json.RawMessage) ([]domain.Asset, error) {
	assets := []domain.Asset{}
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return assets, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch tok {
	case json.Delim('['):
		for dec.More() {
			var a domain.Asset
			if err := dec.Decode(&a); err != nil {
				return nil, err
			}
			assets = append(assets, a)
		}
	case json.Delim('{'):
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, _ := keyTok.(string)

			var a domain.Asset
			if err := dec.Decode(&a); err != nil {
				return nil, fmt.Errorf("asset %q: %w", key, err)
			}
			if a.ID == "" {
				a.ID = key
			}
			assets = append(assets, a)
		}
	default:
		return nil, fmt.Errorf("unexpected assets value %v", tok)
	}

	return assets, nil
}

func (c *connectionFile) toDomain(baseDir string) *domain.Connection {
	if c == nil {
		return nil
	}

	options, encrypted := stringifyOptions(c.ProviderOptions)
	conn := &domain.Connection{
		Name:            c.Name,
		ProviderType:    c.ProviderType,
		ProviderOptions: options,
		Encrypted:       encrypted,
	}

	folder := conn.ProviderOptions["folderPath"]
	switch {
	case folder == "":
	case isLocalProvider(conn.ProviderType) && !filepath.IsAbs(folder):
		conn.Path = filepath.ToSlash(filepath.Join(baseDir, folder))
	default:
		conn.Path = filepath.ToSlash(folder)
	}
	if conn.Path == "" && conn.ProviderOptions["prefix"] != "" {
		conn.Path = "/" + strings.Trim(conn.ProviderOptions["prefix"], "/")
	}

	return conn
}

func isLocalProvider(providerType string) bool {
	switch strings.ToLower(providerType) {
	case "", "local", "localfilesystemproxy":
		return true
	}
	return false
}

// stringifyOptions flattens provider options to strings. Options saved
// encrypted, either as {"encrypted": "..."} or as a bare string, cannot be
// read and are reported as such.
func stringifyOptions(raw json.RawMessage) (map[string]string, bool) {
	options := map[string]string{}
	if len(raw) == 0 {
		return options, false
	}

	var values map[string]interface{}
	if err := json.Unmarshal(raw, &values); err != nil {
		var blob string
		encrypted := json.Unmarshal(raw, &blob) == nil && blob != ""
		return options, encrypted
	}

	encrypted := false
	if v, ok := values["encrypted"]; ok {
		delete(values, "encrypted")
		encrypted = v != nil
	}

	for k, v := range values {
		switch val := v.(type) {
		case string:
			options[k] = val
		case bool:
			options[k] = strconv.FormatBool(val)
		case float64:
			options[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case nil:
		default:
			if b, err := json.Marshal(val); err == nil {
				options[k] = string(b)
			}
		}
	}
	return options, encrypted
}
