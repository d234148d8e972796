package placement

import (
	"context"

	"google.golang.org/grpc"

	"github.com/OliveiraNt/maned-bridge/internal/domain"
)

// ServiceName is the fully qualified gRPC service of the placement MQTT API.
const ServiceName = "placement.mqtt.MqttService"

const (
	methodCreateTopic = "/" + ServiceName + "/CreateTopic"
	methodDeleteTopic = "/" + ServiceName + "/DeleteTopic"
	methodListTopic   = "/" + ServiceName + "/ListTopic"
	methodCreateUser  = "/" + ServiceName + "/CreateUser"
	methodDeleteUser  = "/" + ServiceName + "/DeleteUser"
	methodListUser    = "/" + ServiceName + "/ListUser"
)

// Server is the server side of the placement MQTT API.
type Server interface {
	CreateTopic(context.Context, *domain.CreateTopicRequest) (*domain.CommonReply, error)
	DeleteTopic(context.Context, *domain.DeleteTopicRequest) (*domain.CommonReply, error)
	ListTopic(context.Context, *domain.ListTopicRequest) (*domain.ListTopicReply, error)
	CreateUser(context.Context, *domain.CreateUserRequest) (*domain.CommonReply, error)
	DeleteUser(context.Context, *domain.DeleteUserRequest) (*domain.CommonReply, error)
	ListUser(context.Context, *domain.ListUserRequest) (*domain.ListUserReply, error)
}

// ServiceDesc describes the placement MQTT API for grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		unary("CreateTopic", Server.CreateTopic),
		unary("DeleteTopic", Server.DeleteTopic),
		unary("ListTopic", Server.ListTopic),
		unary("CreateUser", Server.CreateUser),
		unary("DeleteUser", Server.DeleteUser),
		unary("ListUser", Server.ListUser),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "placement/mqtt.proto",
}

// RegisterServer registers srv on s.
func RegisterServer(s grpc.ServiceRegistrar, srv Server) {
	s.RegisterService(&ServiceDesc, srv)
}

func unary[Req, Reply any](name string, call func(Server, context.Context, *Req) (*Reply, error)) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(Server), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(Server), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
