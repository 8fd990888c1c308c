package server

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	mdwerror "github.com/msto63/arcanequest/foundation/core/error"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "arcane.v1.LanguageService"

// Full method names
const (
	MethodTokenize = "/" + ServiceName + "/Tokenize"
	MethodAnalyze  = "/" + ServiceName + "/Analyze"
	MethodHistory  = "/" + ServiceName + "/History"
	MethodStats    = "/" + ServiceName + "/Stats"
	MethodHealth   = "/" + ServiceName + "/Health"
)

// LanguageServer is the server API of the language service. Requests and
// replies are google.protobuf.Struct messages carrying the JSON form of
// the service types.
type LanguageServer interface {
	Tokenize(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Analyze(context.Context, *structpb.Struct) (*structpb.Struct, error)
	History(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Stats(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Health(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// Ensure Server implements LanguageServer
var _ LanguageServer = (*Server)(nil)

// ServiceDesc describes the language service for grpc.Server.RegisterService
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LanguageServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Tokenize", Handler: unaryHandler(MethodTokenize, LanguageServer.Tokenize)},
		{MethodName: "Analyze", Handler: unaryHandler(MethodAnalyze, LanguageServer.Analyze)},
		{MethodName: "History", Handler: unaryHandler(MethodHistory, LanguageServer.History)},
		{MethodName: "Stats", Handler: unaryHandler(MethodStats, LanguageServer.Stats)},
		{MethodName: "Health", Handler: unaryHandler(MethodHealth, LanguageServer.Health)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "arcane/v1/language.proto",
}

// RegisterLanguageServer registers srv on s
func RegisterLanguageServer(s grpc.ServiceRegistrar, srv LanguageServer) {
	s.RegisterService(&ServiceDesc, srv)
}

type unaryMethod func(LanguageServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LanguageServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(LanguageServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// EncodeStruct converts a JSON-tagged value into a Struct message
func EncodeStruct(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeStruct fills v from a Struct message. A nil message leaves v
// unchanged.
func DecodeStruct(in *structpb.Struct, v interface{}) error {
	if in == nil {
		return nil
	}
	data, err := protojson.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// statusCode maps an error code onto the closest gRPC status code
func statusCode(code mdwerror.Code) codes.Code {
	switch code {
	case mdwerror.CodeRequiredField, mdwerror.CodeInvalidInput:
		return codes.InvalidArgument
	case mdwerror.CodeSourceTooLarge:
		return codes.ResourceExhausted
	case mdwerror.CodeNotFound:
		return codes.NotFound
	case mdwerror.CodeServiceUnavailable, mdwerror.CodeConnectionFailed:
		return codes.Unavailable
	case mdwerror.CodeTimeout:
		return codes.DeadlineExceeded
	case mdwerror.CodeCanceled:
		return codes.Canceled
	case mdwerror.CodeDataCorruption:
		return codes.DataLoss
	default:
		return codes.Internal
	}
}

// toStatus converts a service error into a gRPC status error
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(statusCode(mdwerror.GetCode(err)), err.Error())
}

func invalidRequest(err error) error {
	return status.Error(codes.InvalidArgument, "malformed request: "+err.Error())
}
