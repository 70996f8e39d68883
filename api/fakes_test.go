package api

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/saadraza/portfolio-backend/database"
	"github.com/saadraza/portfolio-backend/models"
	"github.com/saadraza/portfolio-backend/services"
)

// The fakes below implement the handlers' store interfaces in memory. They
// are mutex-guarded because some handlers touch them from goroutines.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[uuid.UUID]*models.User)}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) FindByID(id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id], nil
}

func (s *fakeUserStore) FindByCredentials(identifier string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == identifier || u.Email == strings.ToLower(identifier) {
			return u, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) Update(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return nil
}

type fakeContactStore struct {
	mu       sync.Mutex
	contacts map[uuid.UUID]*models.Contact
	order    []uuid.UUID
}

func newFakeContactStore(contacts ...*models.Contact) *fakeContactStore {
	s := &fakeContactStore{contacts: make(map[uuid.UUID]*models.Contact)}
	for _, c := range contacts {
		_ = s.Add(c)
	}
	return s
}

func (s *fakeContactStore) Add(contact *models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}
	s.contacts[contact.ID] = contact
	s.order = append(s.order, contact.ID)
	return nil
}

func (s *fakeContactStore) FindByID(id uuid.UUID) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contacts[id], nil
}

func (s *fakeContactStore) FindFiltered(filter database.ContactFilter) ([]*models.Contact, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Contact
	for _, id := range s.order {
		c := s.contacts[id]
		if filter.Status != "" && filter.Status != "all" && c.Status != filter.Status {
			continue
		}
		if filter.IsSpam != nil && c.IsSpam != *filter.IsSpam {
			continue
		}
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (s *fakeContactStore) Update(contact *models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts[contact.ID] = contact
	return nil
}

func (s *fakeContactStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.contacts, id)
	return nil
}

func (s *fakeContactStore) Stats() (*models.ContactStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &models.ContactStats{}
	for _, c := range s.contacts {
		stats.Total++
		switch c.Status {
		case models.ContactStatusNew:
			stats.New++
		case models.ContactStatusRead:
			stats.Read++
		case models.ContactStatusReplied:
			stats.Replied++
		case models.ContactStatusArchived:
			stats.Archived++
		}
		if c.IsSpam {
			stats.Spam++
		}
	}
	return stats, nil
}

func (s *fakeContactStore) FindRecent(limit int) ([]*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Contact
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.contacts[s.order[i]])
	}
	return out, nil
}

type fakeMailer struct {
	mu            sync.Mutex
	notifications int
	confirmations int
}

func (m *fakeMailer) NotifyContact(name, email, subject, message string) services.SendResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications++
	return services.SendResult{Success: true}
}

func (m *fakeMailer) ConfirmContact(name, email, subject string) services.SendResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmations++
	return services.SendResult{Success: true}
}

type fakeProjectStore struct {
	mu       sync.Mutex
	projects map[uuid.UUID]*models.Project
	order    []uuid.UUID
}

func newFakeProjectStore(projects ...*models.Project) *fakeProjectStore {
	s := &fakeProjectStore{projects: make(map[uuid.UUID]*models.Project)}
	for _, p := range projects {
		_ = s.Add(p)
	}
	return s
}

func (s *fakeProjectStore) Add(project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	s.projects[project.ID] = project
	s.order = append(s.order, project.ID)
	return nil
}

func (s *fakeProjectStore) FindByID(id uuid.UUID) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projects[id], nil
}

func (s *fakeProjectStore) FindFiltered(filter database.ProjectFilter) ([]*models.Project, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Project
	for _, id := range s.order {
		p := s.projects[id]
		if filter.PublicOnly && !p.IsPublic {
			continue
		}
		if filter.Category != "" && filter.Category != "all" && p.Category != filter.Category {
			continue
		}
		if filter.Featured != nil && p.IsFeatured != *filter.Featured {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (s *fakeProjectStore) FindFeatured(limit int) ([]*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Project
	for _, id := range s.order {
		p := s.projects[id]
		if p.IsPublic && p.IsFeatured && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeProjectStore) FindByCategory(category string, limit int) ([]*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Project
	for _, id := range s.order {
		p := s.projects[id]
		if p.IsPublic && p.Category == category && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeProjectStore) Search(query string, limit int) ([]*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := strings.ToLower(query)
	var out []*models.Project
	for _, id := range s.order {
		p := s.projects[id]
		if p.IsPublic && strings.Contains(strings.ToLower(p.Title), q) && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeProjectStore) Update(project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[project.ID] = project
	return nil
}

func (s *fakeProjectStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.projects, id)
	return nil
}

func (s *fakeProjectStore) IncrementViews(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.projects[id]; ok {
		p.Views++
	}
	return nil
}

func (s *fakeProjectStore) IncrementLikes(id uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return 0, nil
	}
	p.Likes++
	return p.Likes, nil
}

func (s *fakeProjectStore) CountByTechnology(name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, p := range s.projects {
		for _, tech := range p.Technologies {
			if tech == name {
				n++
				break
			}
		}
	}
	return n, nil
}

func (s *fakeProjectStore) Stats() (*models.ProjectStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &models.ProjectStats{}
	for _, p := range s.projects {
		stats.Total++
		if p.IsPublic {
			stats.Public++
		} else {
			stats.Private++
		}
		if p.IsFeatured {
			stats.Featured++
		}
		stats.TotalViews += p.Views
		stats.TotalLikes += p.Likes
	}
	return stats, nil
}

func (s *fakeProjectStore) CountByColumn(column string) ([]models.GroupCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[string]int64)
	for _, p := range s.projects {
		switch column {
		case "category":
			counts[p.Category]++
		case "status":
			counts[p.Status]++
		}
	}
	var out []models.GroupCount
	for key, count := range counts {
		out = append(out, models.GroupCount{Key: key, Count: count})
	}
	return out, nil
}

func (s *fakeProjectStore) FindRecent(limit int) ([]*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Project
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		if p, ok := s.projects[s.order[i]]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeSkillStore struct {
	mu     sync.Mutex
	skills map[uuid.UUID]*models.Skill
	order  []uuid.UUID
}

func newFakeSkillStore(skills ...*models.Skill) *fakeSkillStore {
	s := &fakeSkillStore{skills: make(map[uuid.UUID]*models.Skill)}
	for _, skill := range skills {
		_ = s.Add(skill)
	}
	return s
}

func (s *fakeSkillStore) Add(skill *models.Skill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if skill.ID == uuid.Nil {
		skill.ID = uuid.New()
	}
	s.skills[skill.ID] = skill
	s.order = append(s.order, skill.ID)
	return nil
}

func (s *fakeSkillStore) FindByID(id uuid.UUID) (*models.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skills[id], nil
}

func (s *fakeSkillStore) FindByName(name string) (*models.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, skill := range s.skills {
		if skill.Name == name {
			return skill, nil
		}
	}
	return nil, nil
}

func (s *fakeSkillStore) FindFiltered(filter database.SkillFilter) ([]*models.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Skill
	for _, id := range s.order {
		skill := s.skills[id]
		if filter.ActiveOnly && !skill.IsActive {
			continue
		}
		if filter.Category != "" && filter.Category != "all" && skill.Category != filter.Category {
			continue
		}
		if filter.Featured != nil && skill.IsFeatured != *filter.Featured {
			continue
		}
		out = append(out, skill)
	}
	return out, nil
}

func (s *fakeSkillStore) FindByCategory(category string) ([]*models.Skill, error) {
	return s.FindFiltered(database.SkillFilter{ActiveOnly: true, Category: category})
}

func (s *fakeSkillStore) FindFeatured(limit int) ([]*models.Skill, error) {
	featured := true
	out, err := s.FindFiltered(database.SkillFilter{ActiveOnly: true, Featured: &featured})
	if err != nil || len(out) <= limit {
		return out, err
	}
	return out[:limit], nil
}

func (s *fakeSkillStore) FindTop(limit int) ([]*models.Skill, error) {
	out, err := s.FindFiltered(database.SkillFilter{ActiveOnly: true})
	if err != nil || len(out) <= limit {
		return out, err
	}
	return out[:limit], nil
}

func (s *fakeSkillStore) Search(query string, limit int) ([]*models.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := strings.ToLower(query)
	var out []*models.Skill
	for _, id := range s.order {
		skill := s.skills[id]
		if skill.IsActive && strings.Contains(strings.ToLower(skill.Name), q) && len(out) < limit {
			out = append(out, skill)
		}
	}
	return out, nil
}

func (s *fakeSkillStore) Update(skill *models.Skill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skills[skill.ID] = skill
	return nil
}

func (s *fakeSkillStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.skills, id)
	return nil
}

func (s *fakeSkillStore) Stats() (*models.SkillStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &models.SkillStats{}
	var proficiencySum int64
	for _, skill := range s.skills {
		stats.Total++
		if skill.IsActive {
			stats.Active++
		}
		if skill.IsFeatured {
			stats.Featured++
		}
		proficiencySum += int64(skill.Proficiency)
		stats.TotalExperience += int64(skill.YearsOfExperience)
	}
	if stats.Total > 0 {
		stats.AvgProficiency = float64(proficiencySum) / float64(stats.Total)
	}
	return stats, nil
}

func (s *fakeSkillStore) CategoryBreakdown() ([]models.CategoryProficiency, error) {
	return nil, nil
}

func (s *fakeSkillStore) ProficiencyHistogram() ([]models.GroupCount, error) {
	return nil, nil
}

func (s *fakeSkillStore) FindRecent(limit int) ([]*models.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Skill
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		if skill, ok := s.skills[s.order[i]]; ok {
			out = append(out, skill)
		}
	}
	return out, nil
}
