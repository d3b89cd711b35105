package services

import (
	"bufio"
	"os"
	"strings"

	"github.com/muims-dev/muims/models"
	"github.com/muims-dev/muims/repositories"
)

type PartService struct {
	repos *repositories.Repos
}

func NewPartService(repos *repositories.Repos) *PartService {
	return &PartService{repos: repos}
}

func (s *PartService) ListParts() ([]models.Part, error) {
	return s.repos.Part.FindAll()
}

// SeedFromFile loads part names from a flat file, one per line. Blank lines
// are skipped and names already present (case-insensitive) are not
// duplicated, so re-running is safe. Returns the number of parts added.
func (s *PartService) SeedFromFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	added := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		exists, err := s.repos.Part.ExistsByNameInsensitive(name)
		if err != nil {
			return added, err
		}
		if exists {
			continue
		}
		if err := s.repos.Part.Create(&models.Part{Name: name}); err != nil {
			return added, err
		}
		added++
	}
	if err := scanner.Err(); err != nil {
		return added, err
	}
	return added, nil
}
