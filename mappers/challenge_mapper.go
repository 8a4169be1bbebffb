// file: mappers/challenge_mapper.go
package mappers

import (
	"AstraCTF/dto"
	"AstraCTF/models"
)

func MapCreateReqToModel(req dto.CreateChallengeReq) models.Challenge {
	return models.Challenge{
		ChallengeName: req.ChallengeName,
		CategoryID:    req.CategoryID,
		Author:        req.Author,
		Description:   req.Description,
		Hint:          req.Hint,
		Type:          models.ChallengeType(req.Type),
		Function:      models.DecayFunction(req.Function),
		Flag:          req.Flag,
		DockerImage:   req.DockerImage,
		DockerPorts:   req.DockerPorts,
		Difficulty:    models.ChallengeDifficulty(req.Difficulty),
		Points:        req.Initial,
		Minimum:       req.Minimum,
		Decay:         req.Decay,
	}
}

func MapModelToItemResp(ch models.Challenge, solvedCount int64) dto.ChallengeItemResp {
	return dto.ChallengeItemResp{
		ID:            ch.ID,
		ChallengeName: ch.ChallengeName,
		Category:      ch.Category.Alias,
		Difficulty:    string(ch.Difficulty),
		Type:          string(ch.Type),
		Value:         ch.EffectiveValue(),
		SolvedCount:   solvedCount,
	}
}

func MapModelToDetailResp(ch models.Challenge, atts []models.Attachment, solvedCount int64) dto.ChallengeDetailResp {
	mini := make([]dto.AttachmentMini, 0, len(atts))
	for _, a := range atts {
		mini = append(mini, dto.AttachmentMini{
			ID:       a.ID,
			FileName: a.FileName,
			Size:     a.FileSize,
			SHA256:   a.SHA256,
			Status:   string(a.Status),
		})
	}
	return dto.ChallengeDetailResp{
		ID:            ch.ID,
		ChallengeName: ch.ChallengeName,
		Author:        ch.Author,
		Description:   ch.Description,
		Hint:          ch.Hint,
		Category:      ch.Category.Alias,
		Difficulty:    string(ch.Difficulty),
		Type:          string(ch.Type),
		Attachments:   mini,
		Value:         ch.EffectiveValue(),
		SolvedCount:   solvedCount,
	}
}

func MapModelToScoringResp(ch models.Challenge) dto.ScoringResp {
	return dto.ScoringResp{
		ID:        ch.ID,
		Value:     ch.Value,
		Type:      string(ch.Type),
		Function:  string(ch.Function),
		Initial:   ch.Points,
		Minimum:   ch.Minimum,
		Decay:     ch.Decay,
		UpdatedAt: ch.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
