package service

import (
	"FinQuote/internal/domain/models"
)

// DecisionScorer turns scoring metrics into an advisory decision.
type DecisionScorer interface {
	Score(m models.Metrics) models.AgentDecision
}

// SentimentScorer scores metrics against an independent sentiment reading
// (0-100) instead of the momentum proxy.
type SentimentScorer interface {
	ScoreWithSentiment(m models.Metrics, sentiment float64) models.AgentDecision
}
