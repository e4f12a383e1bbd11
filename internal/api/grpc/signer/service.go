package signer

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "walletpass.v1.SignerService"
	// SignBundleMethod is the full method name of SignBundle.
	SignBundleMethod = "/" + ServiceName + "/SignBundle"
	// ManifestDigestHeader carries the manifest fingerprint in response headers.
	ManifestDigestHeader = "x-manifest-digest"
	// RequestIDHeader correlates a request with server logs.
	RequestIDHeader = "x-request-id"
	// ActorHeader names the caller as user@host.
	ActorHeader = "x-actor"
)

// SignerServiceServer is the server API of SignerService.
type SignerServiceServer interface {
	SignBundle(ctx context.Context, req *structpb.Struct) (*wrapperspb.BytesValue, error)
}

// SignerServiceClient is the client API of SignerService.
type SignerServiceClient interface {
	SignBundle(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
}

// ServiceDesc describes SignerService for grpc.ServiceRegistrar.
//
//nolint:gochecknoglobals // Registered once per server, mirrors generated descriptors.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SignerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "SignBundle",
			Handler:    signBundleHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "walletpass/v1/signer.proto",
}

// RegisterSignerServiceServer registers srv on s.
func RegisterSignerServiceServer(s grpc.ServiceRegistrar, srv SignerServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func signBundleHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(SignerServiceServer).SignBundle(ctx, in) //nolint:forcetypeassert // Guaranteed by HandlerType.
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: SignBundleMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SignerServiceServer).SignBundle(ctx, req.(*structpb.Struct)) //nolint:forcetypeassert // Decoded above.
	}

	return interceptor(ctx, in, info, handler)
}

type signerServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewSignerServiceClient returns a client calling SignerService over cc.
func NewSignerServiceClient(cc grpc.ClientConnInterface) SignerServiceClient {
	return &signerServiceClient{cc: cc}
}

func (c *signerServiceClient) SignBundle(
	ctx context.Context,
	req *structpb.Struct,
	opts ...grpc.CallOption,
) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, SignBundleMethod, req, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}
