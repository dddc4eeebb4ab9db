package domain

import "errors"

var (
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberAlreadyExists = errors.New("member already exists")
)

// Member is one live connection in a room. Two connections with the same
// username are two members.
type Member struct {
	ConnectionId string `json:"id"`
	Username     string `json:"username"`
	Avatar       string `json:"avatar"`
	IsHost       bool   `json:"isHost"`
}

// Members keeps join order.
type Members struct {
	list []Member
}

func NewMembers() *Members {
	return &Members{}
}

func (m Members) Length() int {
	return len(m.list)
}

func (m Members) AsList() []Member {
	list := make([]Member, len(m.list))
	copy(list, m.list)

	return list
}

func (m Members) ConnectionIds() []string {
	ids := make([]string, 0, len(m.list))
	for _, member := range m.list {
		ids = append(ids, member.ConnectionId)
	}

	return ids
}

func (m Members) GetByConnectionId(connectionId string) (Member, int, error) {
	for index, member := range m.list {
		if member.ConnectionId == connectionId {
			return member, index, nil
		}
	}

	return Member{}, 0, ErrMemberNotFound
}

func (m *Members) Add(member Member) error {
	if _, _, err := m.GetByConnectionId(member.ConnectionId); err == nil {
		return ErrMemberAlreadyExists
	}

	m.list = append(m.list, member)
	return nil
}

func (m *Members) RemoveByConnectionId(connectionId string) (Member, error) {
	member, index, err := m.GetByConnectionId(connectionId)
	if err != nil {
		return Member{}, err
	}

	m.list = append(m.list[:index], m.list[index+1:]...)
	return member, nil
}
