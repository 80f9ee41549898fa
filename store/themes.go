package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) ListThemes(ctx context.Context) ([]PrintTheme, error) {
	cursor, err := s.themes.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "theme_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	themes := []PrintTheme{}
	if err := cursor.All(ctx, &themes); err != nil {
		return nil, err
	}
	return themes, nil
}

func (s *Store) GetTheme(ctx context.Context, themeID string) (*PrintTheme, error) {
	var theme PrintTheme
	err := s.themes.FindOne(ctx, bson.M{"theme_id": themeID}).Decode(&theme)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrThemeNotFound
		}
		return nil, err
	}
	return &theme, nil
}

// InsertTheme fails with ErrDuplicate when theme_id is taken.
func (s *Store) InsertTheme(ctx context.Context, theme *PrintTheme) error {
	result, err := s.themes.InsertOne(ctx, theme)
	if err != nil {
		return mapWriteError(err)
	}
	theme.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// UpsertTheme replaces the theme keyed by theme_id, creating it if missing.
func (s *Store) UpsertTheme(ctx context.Context, theme *PrintTheme) error {
	doc := *theme
	doc.ID = primitive.NilObjectID
	_, err := s.themes.ReplaceOne(ctx, bson.M{"theme_id": theme.ThemeID}, doc, options.Replace().SetUpsert(true))
	return err
}

func (s *Store) UpdateTheme(ctx context.Context, themeID string, update ThemeUpdate) (*PrintTheme, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Theme != nil {
		set["theme"] = *update.Theme
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.BasePrice != nil {
		set["base_price"] = *update.BasePrice
	}
	if update.Variants != nil {
		set["variants"] = update.Variants
	}

	var theme PrintTheme
	err := s.themes.FindOneAndUpdate(ctx,
		bson.M{"theme_id": themeID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&theme)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrThemeNotFound
		}
		return nil, err
	}
	return &theme, nil
}

func (s *Store) DeleteTheme(ctx context.Context, themeID string) error {
	result, err := s.themes.DeleteOne(ctx, bson.M{"theme_id": themeID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrThemeNotFound
	}
	return nil
}
