// file: dto/challenge.go
package dto

import "strings"

// ========== 请求 DTO ==========

type CreateChallengeReq struct {
	// 规范字段（snake_case）
	ChallengeName string  `json:"challenge_name"`
	CategoryID    uint32  `json:"category_id"`
	Author        string  `json:"author"`
	Description   string  `json:"description"`
	Hint          string  `json:"hint"`
	Type          string  `json:"type"`     // STANDARD / DYNAMIC
	Function      string  `json:"function"` // static / log / exp / linear
	Flag          string  `json:"flag"`
	DockerImage   string  `json:"docker_image"`
	DockerPorts   string  `json:"docker_ports"`
	Difficulty    string  `json:"difficulty"` // easy / medium / hard
	Initial       int     `json:"initial"`
	Minimum       int     `json:"minimum"`
	Decay         float64 `json:"decay"`

	// 仅用于兼容 camelCase 客户端，别名与上面 tag 不重复
	ChallengeNameCamel string `json:"challengeName"`
	CategoryIDCamel    uint32 `json:"categoryId"`
	DockerImageCamel   string `json:"dockerImage"`
	DockerPortsCamel   string `json:"dockerPorts"`
}

// Normalize 将 camelCase 别名归一化到 snake_case，并做轻量默认值处理
func (r *CreateChallengeReq) Normalize() {
	if r.ChallengeName == "" && r.ChallengeNameCamel != "" {
		r.ChallengeName = r.ChallengeNameCamel
	}
	if r.CategoryID == 0 && r.CategoryIDCamel != 0 {
		r.CategoryID = r.CategoryIDCamel
	}
	if r.DockerImage == "" && r.DockerImageCamel != "" {
		r.DockerImage = r.DockerImageCamel
	}
	if r.DockerPorts == "" && r.DockerPortsCamel != "" {
		r.DockerPorts = r.DockerPortsCamel
	}

	r.ChallengeName = strings.TrimSpace(r.ChallengeName)
	r.Author = strings.TrimSpace(r.Author)
	r.Description = strings.TrimSpace(r.Description)
	r.Type = strings.ToUpper(strings.TrimSpace(r.Type))
	r.Function = strings.ToLower(strings.TrimSpace(r.Function))
	r.Difficulty = strings.ToLower(strings.TrimSpace(r.Difficulty))

	if r.Type == "" {
		r.Type = "STANDARD"
	}
	if r.Function == "" {
		r.Function = "static"
	}
	if r.Difficulty == "" {
		r.Difficulty = "medium"
	}
}

type UpdateChallengeReq struct {
	State       *string `json:"state"` // visible/hidden
	Description *string `json:"description"`
	Hint        *string `json:"hint"`
	Difficulty  *string `json:"difficulty"`
	Flag        *string `json:"flag"`
	DockerImage *string `json:"docker_image"`
	DockerPorts *string `json:"docker_ports"`
}

type AttemptReq struct {
	ChallengeID uint32 `json:"challenge_id"`
	Flag        string `json:"flag"`

	ChallengeIDCamel uint32 `json:"challengeId"`
}

func (r *AttemptReq) Normalize() {
	if r.ChallengeID == 0 && r.ChallengeIDCamel != 0 {
		r.ChallengeID = r.ChallengeIDCamel
	}
	r.Flag = strings.TrimSpace(r.Flag)
}

// UpdateScoringReq 计分参数的局部更新，缺省字段保持不变
type UpdateScoringReq struct {
	Type     *string  `json:"type"`     // STANDARD / DYNAMIC
	Function *string  `json:"function"` // static / log / exp / linear
	Initial  *int     `json:"initial"`
	Minimum  *int     `json:"minimum"`
	Decay    *float64 `json:"decay"`
}

func (r *UpdateScoringReq) Normalize() {
	if r.Type != nil {
		t := strings.ToUpper(strings.TrimSpace(*r.Type))
		r.Type = &t
	}
	if r.Function != nil {
		f := strings.ToLower(strings.TrimSpace(*r.Function))
		r.Function = &f
	}
}

// ========== 响应 DTO ==========

type ChallengeItemResp struct {
	ID            uint32 `json:"id"`
	ChallengeName string `json:"challenge_name"`
	Category      string `json:"category"`
	Difficulty    string `json:"difficulty"`
	Type          string `json:"type"`
	Value         int    `json:"value"`
	SolvedCount   int64  `json:"solved_count"`
}

type AttachmentMini struct {
	ID       uint64 `json:"id"`
	FileName string `json:"file_name"`
	Size     uint64 `json:"size"`
	SHA256   string `json:"sha256"`
	Status   string `json:"status"`
}

type ChallengeDetailResp struct {
	ID            uint32           `json:"id"`
	ChallengeName string           `json:"challenge_name"`
	Author        string           `json:"author"`
	Description   string           `json:"description"`
	Hint          string           `json:"hint"`
	Category      string           `json:"category"`
	Difficulty    string           `json:"difficulty"`
	Type          string           `json:"type"`
	Attachments   []AttachmentMini `json:"attachments"`
	Value         int              `json:"value"`
	SolvedCount   int64            `json:"solved_count"`
}

// ScoringResp 计分参数接口的返回体，带刷新后的分值预览
type ScoringResp struct {
	ID        uint32  `json:"id"`
	Value     *int    `json:"value"`
	Type      string  `json:"type"`
	Function  string  `json:"function"`
	Initial   int     `json:"initial"`
	Minimum   int     `json:"minimum"`
	Decay     float64 `json:"decay"`
	UpdatedAt string  `json:"updatedAt"`
}

// ====== Admin 专用响应 DTO ======

type AdminChallengeItemResp struct {
	ID            uint32 `json:"id"`
	ChallengeName string `json:"challenge_name"`
	Category      string `json:"category"`
	Difficulty    string `json:"difficulty"`
	Type          string `json:"type"`
	State         string `json:"state"`
	Value         int    `json:"value"`
	SolvedCount   int64  `json:"solved_count"`
	UpdatedAt     string `json:"updated_at"`
}

type AdminAttachmentMini struct {
	ID       uint64 `json:"id"`
	FileName string `json:"file_name"`
	Size     uint64 `json:"size"`
	SHA256   string `json:"sha256"`
	Status   string `json:"status"`
	Storage  string `json:"storage"`
}

type AdminChallengeDetailResp struct {
	ID            uint32                `json:"id"`
	ChallengeName string                `json:"challenge_name"`
	Category      string                `json:"category"`
	Author        string                `json:"author"`
	Description   string                `json:"description"`
	Hint          string                `json:"hint"`
	Type          string                `json:"type"`
	Function      string                `json:"function"`
	Difficulty    string                `json:"difficulty"`
	State         string                `json:"state"`
	Flag          string                `json:"flag,omitempty"`
	DockerImage   string                `json:"docker_image,omitempty"`
	DockerPorts   string                `json:"docker_ports,omitempty"`
	Initial       int                   `json:"initial"`
	Minimum       int                   `json:"minimum"`
	Decay         float64               `json:"decay"`
	Value         *int                  `json:"value"`
	SolvedCount   int64                 `json:"solved_count"`
	Attachments   []AdminAttachmentMini `json:"attachments"`
	CreatedAt     string                `json:"created_at"`
	UpdatedAt     string                `json:"updated_at"`
}
