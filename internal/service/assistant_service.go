package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/eldorado-p2p/influencer-api/internal/domain"
	"github.com/eldorado-p2p/influencer-api/internal/repository"
	"github.com/eldorado-p2p/influencer-api/pkg/chat"
)

const companyContext = `Você é o assistente AI oficial da El Dorado P2P, uma empresa de marketing de influenciadores especializada em TikTok.

CONTEXTO DA EMPRESA:
- El Dorado P2P trabalha com influenciadores no TikTok para promover produtos P2P
- Focamos em vídeos patrocinados que mencionam "@El Dorado P2P"
- Medimos engagement através de likes, views, comments e shares
- Engagement Rate = (Likes + Comments + Shares) / Views * 100

DADOS DISPONÍVEIS:
- Influenciadores cadastrados com seus responsáveis (owners)
- Vídeos patrocinados do TikTok com métricas completas
- Transcrições dos vídeos (quando disponíveis)
- Analytics de performance por influenciador e período

SUAS CAPACIDADES:
- Responder perguntas sobre performance de influenciadores
- Fornecer insights sobre campanhas e métricas
- Analisar tendências de engagement
- Sugerir melhorias baseadas em dados
- Comparar performance entre influenciadores e períodos

IMPORTANTE: Sempre forneça respostas baseadas em dados reais do banco. Se não tiver dados suficientes, seja transparente sobre isso.`

var transcriptKeywords = []string{"transcri", "fala", "disse", "falou"}
var periodKeywords = []string{"mes", "mês", "semana", "dia", "último"}
var transcriptStopwords = map[string]bool{
	"transcricao": true, "transcri": true, "transcrição": true,
	"videos": true, "vídeos": true, "mostra": true, "sobre": true,
}

// AssistantService answers questions about campaign data through a
// chat-completions model, grounding every reply in live database state.
type AssistantService struct {
	chatClient  chat.Client
	influencers repository.InfluencerRepository
	owners      repository.OwnerRepository
	videos      repository.VideoRepository
	analytics   repository.AnalyticsRepository
	now         func() time.Time
	logger      *slog.Logger
}

// NewAssistantService creates a new assistant service.
func NewAssistantService(
	chatClient chat.Client,
	influencers repository.InfluencerRepository,
	owners repository.OwnerRepository,
	videos repository.VideoRepository,
	analytics repository.AnalyticsRepository,
	logger *slog.Logger,
) *AssistantService {
	return &AssistantService{
		chatClient:  chatClient,
		influencers: influencers,
		owners:      owners,
		videos:      videos,
		analytics:   analytics,
		now:         time.Now,
		logger:      logger,
	}
}

// Answer builds a system prompt from the company context, a database
// snapshot and any question-relevant data, then delegates to the model.
func (s *AssistantService) Answer(ctx context.Context, message string) (string, error) {
	snapshot := s.databaseSnapshot(ctx)
	relevant := s.relevantData(ctx, message)

	snapshotJSON, _ := json.MarshalIndent(snapshot, "", "  ")
	relevantJSON, _ := json.MarshalIndent(relevant, "", "  ")

	systemPrompt := fmt.Sprintf(`%s

DADOS ATUAIS DO SISTEMA:
%s

DADOS RELEVANTES PARA A PERGUNTA:
%s

Responda de forma natural, útil e baseada nos dados reais. Use emojis quando apropriado e seja conversacional mas profissional.`,
		companyContext, snapshotJSON, relevantJSON)

	answer, err := s.chatClient.Complete(ctx, systemPrompt, message)
	if err != nil {
		s.logger.Error("chat completion failed", "error", err)
		return "", fmt.Errorf("%w: %v", domain.ErrAssistantUnavailable, err)
	}
	return answer, nil
}

// Suggestions returns canned starter questions for the chat UI.
func (s *AssistantService) Suggestions() []string {
	return []string{
		"📊 Como está a performance geral este mês?",
		"🏆 Quais são os top 5 vídeos com mais likes?",
		"👥 Quantos influenciadores cada owner tem?",
		"📈 Qual é a taxa de engagement média?",
		"📹 Quantos vídeos foram postados esta semana?",
		"🎙️ Quais vídeos têm transcrições disponíveis?",
		"💡 Que insights você pode me dar sobre as campanhas?",
		"🎯 Quais influenciadores estão performando melhor?",
	}
}

// databaseSnapshot is the always-included headline view of the data.
// Lookup failures degrade to partial snapshots instead of failing the chat.
func (s *AssistantService) databaseSnapshot(ctx context.Context) map[string]any {
	snapshot := map[string]any{}

	if stats, err := s.analytics.Dashboard(ctx, s.now().UTC()); err == nil {
		snapshot["total_influencers"] = stats.TotalInfluencers
		snapshot["total_videos"] = stats.TotalVideos
		snapshot["total_views"] = stats.TotalViews
		snapshot["total_likes"] = stats.TotalLikes
		snapshot["avg_engagement_rate"] = stats.AvgEngagementRate
		snapshot["videos_this_month"] = stats.VideosThisMonth
	} else {
		s.logger.Warn("snapshot dashboard lookup failed", "error", err)
	}

	if top, err := s.analytics.TopVideos(ctx, "likes", 5); err == nil {
		snapshot["top_videos"] = top
	}

	if dist, err := s.influencers.CountByOwner(ctx); err == nil {
		snapshot["owners_distribution"] = dist
	}

	return snapshot
}

// relevantData keys extra context off keywords in the question: an owner
// name pulls that owner's roster and analytics, transcript words trigger a
// transcript search, period words pull 7 or 30 day rollups, and a handle
// mention searches influencers.
func (s *AssistantService) relevantData(ctx context.Context, message string) map[string]any {
	lower := strings.ToLower(message)
	relevant := map[string]any{}

	if names, err := s.owners.ActiveNames(ctx); err == nil {
		for _, name := range names {
			if strings.Contains(lower, strings.ToLower(name)) {
				if roster, err := s.influencers.Search(ctx, name, 10); err == nil {
					relevant["owner_influencers"] = roster
				}
				if stats, err := s.ownerAnalytics(ctx, name); err == nil {
					relevant["owner_analytics"] = stats
				}
				break
			}
		}
	}

	if containsAny(lower, transcriptKeywords) {
		terms := searchTerms(message)
		if videos, err := s.videos.SearchTranscribed(ctx, terms, 10); err == nil && len(videos) > 0 {
			relevant["video_transcriptions"] = summarizeTranscripts(videos)
		}
	} else if strings.Contains(lower, "influencer") || strings.Contains(lower, "usuário") || strings.Contains(message, "@") {
		for _, word := range strings.Fields(message) {
			if len([]rune(word)) <= 3 {
				continue
			}
			word = strings.TrimPrefix(word, "@")
			if found, err := s.influencers.Search(ctx, word, 10); err == nil && len(found) > 0 {
				relevant["searched_influencers"] = found
				break
			}
		}
	}

	if containsAny(lower, periodKeywords) {
		days := 30
		if strings.Contains(lower, "semana") {
			days = 7
		}
		end := s.now().UTC()
		start := end.AddDate(0, 0, -days)
		if stats, err := s.analytics.PeriodStats(ctx, start, end); err == nil {
			relevant["recent_analytics"] = stats
		}
	}

	return relevant
}

// ownerAnalytics aggregates the videos of one owner's influencers.
func (s *AssistantService) ownerAnalytics(ctx context.Context, ownerName string) (map[string]any, error) {
	roster, err := s.influencers.Search(ctx, ownerName, 50)
	if err != nil {
		return nil, err
	}

	var totalVideos, totalViews, totalLikes, totalComments, totalShares int64
	for _, influencer := range roster {
		videos, err := s.videos.List(ctx, influencer.Handle, 0, 500)
		if err != nil {
			continue
		}
		for _, v := range videos {
			totalVideos++
			totalViews += v.ViewCount
			totalLikes += v.LikeCount
			totalComments += v.CommentCount
			totalShares += v.ShareCount
		}
	}

	engagement := 0.0
	if totalViews > 0 {
		engagement = float64(totalLikes+totalComments+totalShares) / float64(totalViews) * 100
	}

	return map[string]any{
		"owner":               ownerName,
		"influencers":         len(roster),
		"total_videos":        totalVideos,
		"total_views":         totalViews,
		"total_likes":         totalLikes,
		"avg_engagement_rate": engagement,
	}, nil
}

func summarizeTranscripts(videos []domain.SponsoredVideo) []map[string]any {
	out := make([]map[string]any, 0, len(videos))
	for _, v := range videos {
		out = append(out, map[string]any{
			"handle":          v.Handle,
			"tiktok_video_id": v.TikTokVideoID,
			"description":     truncate(v.Description, 100),
			"transcription":   truncate(v.Transcript, 300),
			"likes":           v.LikeCount,
			"views":           v.ViewCount,
			"published_at":    v.PublishedAt,
		})
	}
	return out
}

func searchTerms(message string) []string {
	var terms []string
	for _, word := range strings.Fields(message) {
		if len([]rune(word)) <= 3 {
			continue
		}
		if transcriptStopwords[strings.ToLower(word)] {
			continue
		}
		terms = append(terms, word)
	}
	return terms
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
