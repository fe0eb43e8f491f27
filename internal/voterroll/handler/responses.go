package handler

import "rollcall/internal/voterroll"

type voterResponse struct {
	ID           string `json:"id"`
	RegNo        string `json:"regNo"`
	Name         string `json:"name"`
	Constituency string `json:"constituency"`
	Email        string `json:"email,omitempty"`
	Status       string `json:"status"`
}

type listResponse struct {
	Voters []voterResponse `json:"voters"`
	Total  int             `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

func fromVoter(v *voterroll.Voter) voterResponse {
	return voterResponse{
		ID:           v.ID.String(),
		RegNo:        v.RegNo,
		Name:         v.Name,
		Constituency: v.Constituency,
		Email:        v.Email,
		Status:       string(v.Status),
	}
}

func fromVoters(voters []*voterroll.Voter) []voterResponse {
	out := make([]voterResponse, 0, len(voters))
	for _, v := range voters {
		out = append(out, fromVoter(v))
	}
	return out
}
