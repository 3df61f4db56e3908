// internal/app/system/seeding/seeding.go
package seeding

import (
	"context"
	"errors"
	"fmt"
	"time"

	competitorstore "github.com/dalemusser/strataleads/internal/app/store/competitors"
	cpoststore "github.com/dalemusser/strataleads/internal/app/store/competitorposts"
	leadstore "github.com/dalemusser/strataleads/internal/app/store/leads"
	poststore "github.com/dalemusser/strataleads/internal/app/store/posts"
	userstore "github.com/dalemusser/strataleads/internal/app/store/users"
	"github.com/dalemusser/strataleads/internal/app/system/authutil"
	"github.com/dalemusser/strataleads/internal/app/system/remote"
	"github.com/dalemusser/strataleads/internal/domain/models"
	"go.uber.org/zap"
)

// Admin describes the account created at startup when a seed email is
// configured. An empty Password makes it a Google sign-in account.
type Admin struct {
	Email    string
	Name     string
	Password string
}

// SeedAdmin creates the admin account if no user has that login id yet.
// An existing account is left untouched.
func SeedAdmin(ctx context.Context, users *userstore.Store, a Admin, logger *zap.Logger) error {
	if a.Email == "" {
		return nil
	}
	if _, err := users.GetByLoginID(ctx, a.Email); err == nil {
		logger.Debug("seed admin already present", zap.String("login_id", a.Email))
		return nil
	} else if !errors.Is(err, userstore.ErrNotFound) {
		return err
	}

	u := models.User{FullName: a.Name, LoginID: a.Email, AuthMethod: models.AuthGoogle}
	if u.FullName == "" {
		u.FullName = "Admin"
	}
	if a.Password != "" {
		if err := authutil.ValidatePassword(a.Password); err != nil {
			return fmt.Errorf("seed admin password: %w", err)
		}
		hash, err := authutil.HashPassword(a.Password)
		if err != nil {
			return err
		}
		u.AuthMethod = models.AuthPassword
		u.PasswordHash = &hash
	}

	created, err := users.Create(ctx, u)
	if err != nil {
		return err
	}
	logger.Info("created seed admin",
		zap.String("login_id", created.LoginID),
		zap.String("auth_method", created.AuthMethod),
		zap.String("user_id", created.ID.Hex()))
	return nil
}

// SeedDemoData fills an empty database with a few competitors, their
// posts, our own posts and leads so every screen has content in
// development. It does nothing once any competitor exists.
func SeedDemoData(ctx context.Context, acc *remote.Accessor, logger *zap.Logger) error {
	n, err := acc.CountWhere(ctx, models.CollCompetitors)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Debug("demo data skipped, competitors present", zap.Int64("competitors", n))
		return nil
	}

	now := time.Now().UTC()
	ago := func(d time.Duration) time.Time { return now.Add(-d) }
	ptr := func(t time.Time) *time.Time { return &t }
	num := func(v int64) *int64 { return &v }

	competitors := competitorstore.New(acc)
	cposts := cpoststore.New(acc)
	posts := poststore.New(acc)
	leads := leadstore.New(acc)

	seedCompetitors := []models.Competitor{
		{Name: "Sophie Laurent", Headline: "Growth marketer B2B", Company: "Scalewise", URL: "https://www.linkedin.com/in/sophie-laurent", FollowerCount: num(18400), Industry: "Marketing", Location: "Paris", Status: models.CompetitorActive, CreatedAt: ago(20 * 24 * time.Hour)},
		{Name: "Thomas Mercier", Headline: "Fondateur, agence outbound", Company: "Prospekt", URL: "https://www.linkedin.com/in/thomas-mercier", FollowerCount: num(52300), Industry: "Conseil", Location: "Lyon", Status: models.CompetitorMonitoring, CreatedAt: ago(9 * 24 * time.Hour)},
		{Name: "Nadia Benali", Headline: "LinkedIn ghostwriter", URL: "https://www.linkedin.com/in/nadia-benali", FollowerCount: num(7300), Status: models.CompetitorPaused, CreatedAt: ago(3 * 24 * time.Hour)},
	}
	var ids []int64
	for _, c := range seedCompetitors {
		row, err := competitors.Insert(ctx, c)
		if err != nil {
			return fmt.Errorf("seed competitor %q: %w", c.Name, err)
		}
		ids = append(ids, row.ID)
	}

	seedCPosts := []models.CompetitorPost{
		{CompetitorID: ids[0], Caption: "5 erreurs qui tuent vos taux de réponse en prospection", Likes: num(412), Comments: num(87), Shares: num(21), Hashtags: []string{"#prospection"}, PostDate: ptr(ago(5 * time.Hour))},
		{CompetitorID: ids[0], Caption: "Notre playbook complet pour 2 rendez-vous par jour", Likes: num(1290), Comments: num(340), Shares: num(64), PostDate: ptr(ago(4 * 24 * time.Hour))},
		{CompetitorID: ids[1], Caption: "Pourquoi j'ai arrêté les séquences automatisées", Likes: num(230), Comments: num(45), Shares: nil, PostDate: ptr(ago(26 * time.Hour))},
		{CompetitorID: ids[2], Caption: "Le hook parfait tient en 9 mots", Likes: nil, Comments: nil, Shares: nil, PostDate: ptr(ago(12 * 24 * time.Hour))},
	}
	for _, p := range seedCPosts {
		if _, err := cposts.Insert(ctx, p); err != nil {
			return fmt.Errorf("seed competitor post: %w", err)
		}
	}

	seedPosts := []models.Post{
		{Content: "Trois leçons tirées de 100 appels découverte.", Type: models.PostTypeFull, Status: models.PostPublished, PostURL: "https://www.linkedin.com/feed/update/urn:li:activity:1", CreatedAt: ago(2 * 24 * time.Hour)},
		{Content: "Commentez GUIDE pour recevoir notre template de séquence.", Type: models.PostTypeFull, CTAKeyword: "GUIDE", IsLeadMagnet: true, Status: models.PostPublished, CreatedAt: ago(6 * 24 * time.Hour)},
		{Content: "Idée : le coût caché d'un CRM mal rempli", Type: models.PostTypeIdea, Status: models.PostDraft, CreatedAt: ago(3 * time.Hour)},
		{Content: "Annonce du webinar de mars", Type: models.PostTypeFull, Status: models.PostScheduled, ScheduledFor: ptr(now.Add(72 * time.Hour)), CreatedAt: ago(26 * time.Hour)},
	}
	var magnetID int64
	for _, p := range seedPosts {
		row, err := posts.Insert(ctx, p)
		if err != nil {
			return fmt.Errorf("seed post: %w", err)
		}
		if row.IsLeadMagnet {
			magnetID = row.ID
		}
	}
	if magnetID != 0 {
		if err := posts.CreateCommentsTable(ctx, magnetID); err != nil {
			return fmt.Errorf("seed comment table: %w", err)
		}
		if err := seedComments(ctx, acc, magnetID, now); err != nil {
			return err
		}
	}

	seedLeads := []models.Lead{
		{LinkedInID: "ACoAAB1", Name: "Camille Roux", Headline: "Head of Sales", Company: "Datapulse", ConnectionStatus: "accepted", DMStatus: "envoyé", URL: "https://www.linkedin.com/in/camille-roux", Date: ptr(ago(4 * time.Hour))},
		{LinkedInID: "ACoAAB2", Name: "Hugo Garnier", Headline: "CEO", Company: "Fleetly", ConnectionStatus: "pending", DMStatus: "", Date: ptr(ago(30 * time.Hour))},
		{LinkedInID: "ACoAAB3", Name: "Léa Fontaine", Headline: "Marketing manager", Company: "Datapulse", ConnectionStatus: "Accepted", DMStatus: "sent", Date: ptr(ago(9 * 24 * time.Hour))},
	}
	for _, l := range seedLeads {
		if err := leads.Upsert(ctx, l); err != nil {
			return fmt.Errorf("seed lead %s: %w", l.LinkedInID, err)
		}
	}

	logger.Info("seeded demo data",
		zap.Int("competitors", len(seedCompetitors)),
		zap.Int("competitor_posts", len(seedCPosts)),
		zap.Int("posts", len(seedPosts)),
		zap.Int("leads", len(seedLeads)))
	return nil
}

// seedComments writes a handful of comments into the post's comment
// collection, whose name is read back from the post row.
func seedComments(ctx context.Context, acc *remote.Accessor, postID int64, now time.Time) error {
	p, err := poststore.New(acc).Get(ctx, postID)
	if err != nil {
		return err
	}
	d := now.Add(-2 * time.Hour)
	docs := []any{
		models.PostComment{LinkedInID: "ACoAAB1", PersonName: "Camille Roux", CommentDate: &d, ConnectionRequestSent: true, DMReceived: true, CreatedAt: now},
		models.PostComment{LinkedInID: "ACoAAB2", PersonName: "Hugo Garnier", CommentDate: &d, ConnectionRequestSent: true, CreatedAt: now},
		models.PostComment{LinkedInID: "ACoAAB4", PersonName: "Marc Lefèvre", CommentDate: &d, CreatedAt: now},
	}
	if _, err := acc.Database().Collection(p.CommentsTableName).InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("seed comments: %w", err)
	}
	return nil
}
