package service

import (
	"fmt"
	"html"
	"log"
	"os"
	"strings"
	"time"

	"anoa.com/reviewrewards/internal/entity"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

// MissionSearchService keeps the missions index in sync and signs scoped
// search tokens so the frontend can query Meilisearch directly.
type MissionSearchService interface {
	IndexMission(mission *entity.Mission) error
	DeleteMission(id string) error
	GenerateSearchToken(userRole string) (string, error)
}

type missionSearchService struct {
	client        meilisearch.ServiceManager
	masterKey     string
	signingKeyUID string
	signingKey    string
	sanitizer     *bluemonday.Policy
}

func NewMissionSearchService(client meilisearch.ServiceManager) MissionSearchService {
	masterKey := os.Getenv("MEILI_MASTER_KEY")
	if masterKey == "" {
		log.Println("WARNING: MEILI_MASTER_KEY is not set.")
	}

	s := &missionSearchService{
		client:    client,
		masterKey: masterKey,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	s.initSigningKey()
	return s
}

func (s *missionSearchService) initSigningKey() {
	resp, err := s.client.GetKeys(&meilisearch.KeysQuery{
		Limit: 20,
	})
	if err != nil {
		log.Printf("Failed to get meilisearch keys: %v", err)
		return
	}

	for _, key := range resp.Results {
		if key.Name == "TenantTokenSigner" {
			s.signingKeyUID = key.UID
			s.signingKey = key.Key
			log.Println("Found existing Meilisearch signing key")
			return
		}
	}

	expiry := time.Now().AddDate(100, 0, 0)

	key, err := s.client.CreateKey(&meilisearch.Key{
		Description: "Key to sign tenant tokens",
		Name:        "TenantTokenSigner",
		Actions:     []string{"search"},
		Indexes:     []string{"missions"},
		ExpiresAt:   expiry,
	})
	if err != nil {
		log.Printf("Failed to create signing key: %v", err)
		return
	}

	s.signingKeyUID = key.UID
	s.signingKey = key.Key
	log.Println("Created new Meilisearch signing key")
}

func (s *missionSearchService) initIndexes() {
	filterableAttrs := []string{"status", "type"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	_, err := s.client.Index("missions").UpdateFilterableAttributes(&filterableInterface)
	if err != nil {
		log.Printf("Failed to update missions filterable attributes: %v", err)
	}

	sortableAttrs := []string{"created_at", "points_reward"}
	_, err = s.client.Index("missions").UpdateSortableAttributes(&sortableAttrs)
	if err != nil {
		log.Printf("Failed to update missions sortable attributes: %v", err)
	}

	log.Println("Meilisearch indexes initialized")
}

type meiliMissionDoc struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	PointsReward int    `json:"points_reward"`
	Type         string `json:"type"`
	Status       string `json:"status"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
	CreatedAt    int64  `json:"created_at"`
}

func (s *missionSearchService) cleanContentForIndex(content string) string {
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	sanitized := s.sanitizer.Sanitize(content)
	cleanText := html.UnescapeString(sanitized)
	cleanText = strings.Join(strings.Fields(cleanText), " ")

	return cleanText
}

func (s *missionSearchService) IndexMission(mission *entity.Mission) error {
	doc := meiliMissionDoc{
		ID:           mission.ID.String(),
		Title:        mission.Title,
		Description:  s.cleanContentForIndex(mission.Description),
		PointsReward: mission.PointsReward,
		Type:         string(mission.Type),
		Status:       string(mission.Status),
		CreatedAt:    mission.CreatedAt.Unix(),
	}
	if mission.ExpiresAt != nil {
		doc.ExpiresAt = mission.ExpiresAt.Unix()
	}

	task, err := s.client.Index("missions").AddDocuments([]meiliMissionDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed mission %s, task id: %d", mission.ID, task.TaskUID)
	return nil
}

func (s *missionSearchService) DeleteMission(id string) error {
	_, err := s.client.Index("missions").DeleteDocument(id)
	return err
}

// GenerateSearchToken signs a tenant token: members only see published
// missions, admins see everything including drafts.
func (s *missionSearchService) GenerateSearchToken(userRole string) (string, error) {
	if s.signingKeyUID == "" || s.signingKey == "" {
		return "", fmt.Errorf("signing key not initialized")
	}

	searchRules := map[string]any{}
	if userRole == entity.RoleAdmin {
		searchRules["missions"] = map[string]any{"filter": nil}
	} else {
		searchRules["missions"] = map[string]any{
			"filter": "status = 'ACTIVE'",
		}
	}

	token, err := s.client.GenerateTenantToken(s.signingKeyUID, searchRules, &meilisearch.TenantTokenOptions{
		APIKey:    s.signingKey,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

func strPtr(s string) *string {
	return &s
}
