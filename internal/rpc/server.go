package rpc

import (
	"log/slog"

	middleware "github.com/vmkteam/zenrpc-middleware"
	"github.com/vmkteam/zenrpc/v2"

	"github.com/daniilsolovey/havaasa/internal/newsportal"
)

const Namespace = "articles"

func New(logger *slog.Logger, cache *newsportal.Cache) *zenrpc.Server {
	rpcService := NewArticleService(cache)
	rpcServer := zenrpc.NewServer(zenrpc.Options{ExposeSMD: true})
	rpcServer.Register(Namespace, rpcService)
	rpcServer.Use(middleware.WithSLog(logger.InfoContext, "havaasa", nil))

	return rpcServer
}
