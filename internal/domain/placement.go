package domain

import "context"

// CreateTopicRequest asks the placement service to store a topic.
type CreateTopicRequest struct {
	ClusterName string `json:"clusterName"`
	TopicName   string `json:"topicName"`
	Content     []byte `json:"content"`
}

// DeleteTopicRequest removes a topic from a cluster.
type DeleteTopicRequest struct {
	ClusterName string `json:"clusterName"`
	TopicName   string `json:"topicName"`
}

// ListTopicRequest lists topics; an empty TopicName matches every topic.
type ListTopicRequest struct {
	ClusterName string `json:"clusterName"`
	TopicName   string `json:"topicName"`
}

// ListTopicReply carries one self-contained serialized topic per entry.
type ListTopicReply struct {
	Topics []string `json:"topics"`
}

// CreateUserRequest asks the placement service to store a user.
type CreateUserRequest struct {
	ClusterName string `json:"clusterName"`
	UserName    string `json:"userName"`
	Content     []byte `json:"content"`
}

// DeleteUserRequest removes a user from a cluster.
type DeleteUserRequest struct {
	ClusterName string `json:"clusterName"`
	UserName    string `json:"userName"`
}

// ListUserRequest lists users; an empty UserName matches every user.
type ListUserRequest struct {
	ClusterName string `json:"clusterName"`
	UserName    string `json:"userName"`
}

// ListUserReply carries one serialized user per entry.
type ListUserReply struct {
	Users []string `json:"users"`
}

// CommonReply is the empty acknowledgement of a mutation.
type CommonReply struct{}

// PlacementClient issues RPCs to the placement service. addrs lists the
// candidate service addresses; failover between them is the client's concern.
type PlacementClient interface {
	CreateTopic(ctx context.Context, addrs []string, req *CreateTopicRequest) (*CommonReply, error)
	DeleteTopic(ctx context.Context, addrs []string, req *DeleteTopicRequest) (*CommonReply, error)
	ListTopic(ctx context.Context, addrs []string, req *ListTopicRequest) (*ListTopicReply, error)
	CreateUser(ctx context.Context, addrs []string, req *CreateUserRequest) (*CommonReply, error)
	DeleteUser(ctx context.Context, addrs []string, req *DeleteUserRequest) (*CommonReply, error)
	ListUser(ctx context.Context, addrs []string, req *ListUserRequest) (*ListUserReply, error)
}
