package service

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/nutricoach/backend/config"
	"github.com/nutricoach/backend/internal/models"
	"gorm.io/gorm"
)

// PhotoService stores meal photos in S3 and links them to food logs.
type PhotoService struct {
	db       *gorm.DB
	s3Config *config.S3Config
}

// NewPhotoService creates a new PhotoService instance
func NewPhotoService(db *gorm.DB, s3Config *config.S3Config) *PhotoService {
	return &PhotoService{
		db:       db,
		s3Config: s3Config,
	}
}

// UploadMealPhoto uploads photo data to S3 and records the resulting URL on
// the user's food log entry.
func (s *PhotoService) UploadMealPhoto(ctx context.Context, userID, logID uuid.UUID, photoData []byte, contentType string) (string, error) {
	var entry models.FoodLog
	if err := s.db.WithContext(ctx).First(&entry, "id = ? AND user_id = ?", logID, userID).Error; err != nil {
		return "", fmt.Errorf("food log not found: %w", err)
	}

	ext := "jpg"
	if contentType == "image/png" {
		ext = "png"
	}
	fileName := fmt.Sprintf("meal-photos/%s.%s", uuid.New().String(), ext)

	photoURL, err := s.uploadToS3(ctx, photoData, fileName, contentType)
	if err != nil {
		return "", err
	}

	if err := s.db.WithContext(ctx).Model(&entry).Update("photo_url", photoURL).Error; err != nil {
		return "", fmt.Errorf("failed to save photo URL: %w", err)
	}

	return photoURL, nil
}

// uploadToS3 uploads photo data to S3 and returns the public URL
func (s *PhotoService) uploadToS3(ctx context.Context, photoData []byte, fileName, contentType string) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(photoData),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName)
	log.Printf("[PhotoService] Successfully uploaded meal photo to S3: %s", publicURL)

	return publicURL, nil
}
