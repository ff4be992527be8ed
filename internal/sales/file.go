package sales

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"TreasuryBot/internal/model"
)

// FileSource reads sales from a JSON drop file written by the upstream
// pipeline and consumes the file on a successful read. Useful for
// single-host deployments where both jobs share a disk.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource { return &FileSource{Path: path} }

func (s *FileSource) Name() string { return "file" }

// FetchNewSales reads the drop file and renames it aside so the same sales
// are never processed twice. A missing file means no new sales.
func (s *FileSource) FetchNewSales(_ context.Context) ([]model.Sale, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("sales: read drop file: %w", err)
	}

	var sales []model.Sale
	if err := json.Unmarshal(data, &sales); err != nil {
		return nil, fmt.Errorf("sales: parse drop file: %w", err)
	}
	for i := range sales {
		if sales[i].ID == "" {
			sales[i].ID = uuid.NewString()
		}
	}

	if err := os.Rename(s.Path, s.Path+".processed"); err != nil {
		return nil, fmt.Errorf("sales: consume drop file: %w", err)
	}
	return sales, nil
}
