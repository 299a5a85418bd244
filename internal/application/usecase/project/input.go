package project

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jaehyun-dev/portfolio-backend/adapters/event"
	"github.com/jaehyun-dev/portfolio-backend/internal/application/service"
	"github.com/jaehyun-dev/portfolio-backend/internal/domain/project"
	"github.com/jaehyun-dev/portfolio-backend/pkg/logger"
)

type TroubleShootingInput struct {
	Title       string
	Description string
	Image       *string
}

// ProjectInput mirrors the wire DTO: the project title travels as Name, and
// every field is optional so the multipart update path can distinguish
// "absent" from "set to empty". A nil Troubleshooting slice means "leave the
// entries alone"; a non-nil empty slice means "replace with nothing".
type ProjectInput struct {
	Name            *string
	Summary         *string
	Description     *string
	Technologies    []string
	Thumbnail       *string
	Github          *string
	Website         *string
	StartDate       *string
	EndDate         *string
	Images          []string
	Troubleshooting []TroubleShootingInput
}

// FileOptions carries the multipart file parts. TroubleshootingIndices holds
// decimal string positions into the troubleshooting list, aligned with
// TroubleshootingImages; empty file parts keep their slot so that alignment
// survives.
type FileOptions struct {
	Images                 []service.FileUpload
	ThumbnailIndex         *int
	TroubleshootingImages  []service.FileUpload
	TroubleshootingIndices []string
}

func todayISO() string {
	return time.Now().Format("2006-01-02")
}

func defaultSummary(summary *string, title string) string {
	if summary != nil && strings.TrimSpace(*summary) != "" {
		return *summary
	}
	if title != "" {
		return title + " 프로젝트"
	}
	return "새 프로젝트"
}

func derefOr(s *string, fallback string) string {
	if s != nil {
		return *s
	}
	return fallback
}

// saveAll persists every non-empty upload in order and returns the stored
// URLs.
func saveAll(ctx context.Context, store service.ImageStore, files []service.FileUpload) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		if f.IsEmpty() {
			continue
		}
		url, err := store.Save(ctx, f.Content, f.Name)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// buildTroubleshooting creates fresh entries (incoming IDs are ignored) and
// resolves each entry's image by positional matching: the entry at position i
// takes the first non-empty file whose index value equals i.
func buildTroubleshooting(ctx context.Context, store service.ImageStore, entries []TroubleShootingInput, opts FileOptions) ([]project.TroubleShooting, error) {
	out := make([]project.TroubleShooting, 0, len(entries))
	for i, in := range entries {
		ts := project.TroubleShooting{
			Title:       in.Title,
			Description: in.Description,
		}
		for j, idx := range opts.TroubleshootingIndices {
			if idx != strconv.Itoa(i) || j >= len(opts.TroubleshootingImages) {
				continue
			}
			f := opts.TroubleshootingImages[j]
			if f.IsEmpty() {
				continue
			}
			url, err := store.Save(ctx, f.Content, f.Name)
			if err != nil {
				return nil, err
			}
			ts.Image = &url
			break
		}
		out = append(out, ts)
	}
	return out, nil
}

func publishOrphaned(producer *event.KafkaProducerClient, log logger.Logger, urls []string) {
	if producer == nil || len(urls) == 0 {
		return
	}
	go func() {
		for _, u := range urls {
			fileName := service.FileNameFromURL(u)
			if fileName == "" {
				continue
			}
			payload := event.ImageEventPayload{
				EventType: event.ImageEventTypeOrphaned,
				FileName:  fileName,
				URL:       u,
			}
			if err := producer.PublishImageEvent(context.Background(), payload); err != nil {
				log.Error("Failed to publish Kafka 'image.orphaned' event", err, zap.String("file_name", fileName))
			}
		}
	}()
}
