// Package signer implements the gRPC transport of the signing service.
//
// The service walletpass.v1.SignerService has a single unary method,
// SignBundle, described by a hand-written grpc.ServiceDesc. Requests travel
// as google.protobuf.Struct and the signed archive comes back as
// google.protobuf.BytesValue, so no generated code is needed on either side.
package signer
