// Package seed creates demo data for development databases. Posts, comments
// and engagements go through the services so counters stay consistent.
package seed

import (
	"fmt"
	"time"

	"pawfeed/internal/models"
	"pawfeed/internal/service"

	"github.com/brianvoe/gofakeit/v6"
)

// Factory builds realistic inputs for the services.
type Factory struct {
	faker  *gofakeit.Faker
	preset Preset
}

// NewFactory creates a Factory. A zero seed picks a random one.
func NewFactory(preset Preset, seed int64) *Factory {
	preset.applyDefaults()
	return &Factory{faker: gofakeit.New(seed), preset: preset}
}

// BuildUser returns a profile row for the users table.
func (f *Factory) BuildUser() *models.User {
	return &models.User{
		ID:       f.faker.UUID(),
		Username: fmt.Sprintf("%s%d", f.faker.Username(), f.faker.Number(100, 999)),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.faker.UUID()),
	}
}

// BuildCommunityPost returns a community post input authored by authorID.
func (f *Factory) BuildCommunityPost(authorID string) service.CreatePostInput {
	petType := f.pick(f.preset.PetTypes)
	in := service.CreatePostInput{
		Variant:     models.VariantCommunity,
		AuthorID:    authorID,
		Description: fmt.Sprintf("%s %s", f.petSentence(petType), f.faker.Sentence(8)),
		PetType:     petType,
		Category:    f.pick(f.preset.Categories),
	}
	if f.faker.Bool() {
		in.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", f.faker.UUID())
	}
	return in
}

// BuildPlaydatePost returns a playdate input with every required field set
// and a meetup time in the coming weeks.
func (f *Factory) BuildPlaydatePost(authorID string) service.CreatePostInput {
	when := time.Now().UTC().
		Add(time.Duration(f.faker.Number(1, 21)) * 24 * time.Hour).
		Truncate(time.Hour)
	breed := f.faker.Dog()
	addr := f.faker.Address()
	place := fmt.Sprintf("%s Park", f.faker.LastName())

	return service.CreatePostInput{
		Variant:     models.VariantPlaydate,
		AuthorID:    authorID,
		Title:       fmt.Sprintf("%s meetup at %s", breed, place),
		Description: f.faker.Paragraph(1, 2, 10, " "),
		DogBreed:    breed,
		Address:     addr.Street,
		City:        f.pick(f.preset.Cities),
		State:       addr.State,
		Zip:         addr.Zip,
		WhenAt:      &when,
		Place:       place,
		Location: &models.GeoLocation{
			Lat: addr.Latitude,
			Lng: addr.Longitude,
		},
	}
}

// BuildComment returns a comment input on postID by author.
func (f *Factory) BuildComment(postID string, author *models.User) service.AddCommentInput {
	return service.AddCommentInput{
		PostID:   postID,
		AuthorID: author.ID,
		Username: author.Username,
		Content:  f.faker.Sentence(f.faker.Number(4, 14)),
	}
}

// CreatedAt returns a timestamp spread over the preset's MaxDays window.
func (f *Factory) CreatedAt() time.Time {
	back := time.Duration(f.faker.Number(0, f.preset.MaxDays*24*60)) * time.Minute
	return time.Now().UTC().Add(-back)
}

// Chance reports true with probability p.
func (f *Factory) Chance(p float64) bool {
	return f.faker.Float64Range(0, 1) < p
}

// Intn returns a value in [0, n].
func (f *Factory) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return f.faker.Number(0, n)
}

func (f *Factory) pick(values []string) string {
	return values[f.faker.Number(0, len(values)-1)]
}

func (f *Factory) petSentence(petType string) string {
	switch petType {
	case "dog":
		return fmt.Sprintf("My %s just learned a new trick!", f.faker.Dog())
	case "cat":
		return fmt.Sprintf("My %s has claimed the sunny spot again.", f.faker.Cat())
	default:
		return fmt.Sprintf("Look at this %s %s.", f.faker.AdjectiveDescriptive(), petType)
	}
}
