package main

import (
	"fmt"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	"github.com/go-playground/validator/v10"
	ipfsapi "github.com/ipfs/go-ipfs-api"

	"github.com/musicnft/goapi/base/ctx"
	"github.com/musicnft/goapi/base/database/mongoclient"
	"github.com/musicnft/goapi/base/log"
	"github.com/musicnft/goapi/base/usdc"
	bValidator "github.com/musicnft/goapi/base/validator"
	"github.com/musicnft/goapi/domain"
	"github.com/musicnft/goapi/domain/keys"
	"github.com/musicnft/goapi/domain/ledger"
	"github.com/musicnft/goapi/domain/paytoken"
	mmiddleware "github.com/musicnft/goapi/middleware"
	"github.com/musicnft/goapi/service/cache"
	"github.com/musicnft/goapi/service/cache/provider/primitive"
	"github.com/musicnft/goapi/service/chain"
	"github.com/musicnft/goapi/service/chain/contract"
	"github.com/musicnft/goapi/service/pinata"
	"github.com/musicnft/goapi/service/query"
	"github.com/musicnft/goapi/service/stablecoin"
	file_delivery "github.com/musicnft/goapi/stores/file/delivery/http"
	file_usecase "github.com/musicnft/goapi/stores/file/usecase"
	hc_delivery "github.com/musicnft/goapi/stores/healthcheck/delivery/http"
	hc_repo "github.com/musicnft/goapi/stores/healthcheck/repository"
	hc_usecase "github.com/musicnft/goapi/stores/healthcheck/usecase"
	ledger_delivery "github.com/musicnft/goapi/stores/ledger/delivery/http"
	ledger_usecase "github.com/musicnft/goapi/stores/ledger/usecase"
	metadata_usecase "github.com/musicnft/goapi/stores/metadata/usecase"
	paytoken_delivery "github.com/musicnft/goapi/stores/paytoken/delivery/http"
	song_delivery "github.com/musicnft/goapi/stores/song/delivery/http"
	song_repository "github.com/musicnft/goapi/stores/song/repository"
	song_usecase "github.com/musicnft/goapi/stores/song/usecase"
	web_resource_repository "github.com/musicnft/goapi/stores/web_resource/repository"
	web_resource_usecase "github.com/musicnft/goapi/stores/web_resource/usecase"
)

func init() {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(`configs/config.yaml`)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	// init mongo client
	context.Info("init mongo")
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	q := query.New(mongoClient)

	pinataService := pinata.New(viper.GetString("pinata.apiKey"), viper.GetString("pinata.apiSecret"))

	// init chain service
	networks := viper.Sub("networks")
	rpcs := make(map[int32]string)
	if networks != nil {
		for k := range networks.AllSettings() {
			chainId := networks.GetInt32(fmt.Sprintf("%s.chainId", k))
			rpcUrl := networks.GetString(fmt.Sprintf("%s.rpcUrl", k))
			rpcs[chainId] = rpcUrl
		}
	}
	chainService, err := chain.NewClient(context, &chain.ClientCfg{
		RpcUrls: rpcs,
	})
	if err != nil {
		context.WithField("err", err).Warn("chainService started with error")
	}

	httpTimeout := viper.GetDuration("http.timeout")
	ipfsShell := ipfsapi.NewShell(viper.GetString("ipfs.nodeApiUrl"))
	webResource := web_resource_usecase.NewWebResourceUseCase(&web_resource_usecase.WebResourceUseCaseCfg{
		HttpReader:    web_resource_repository.NewHttpReaderRepo(http.Client{}, httpTimeout, nil),
		IpfsReader:    web_resource_repository.NewIpfsNodeApiReaderRepo(ipfsShell, viper.GetDuration("ipfs.timeout")),
		DataUriReader: web_resource_repository.NewDataUriReaderRepo(),
	})

	metadataCache := cache.New(cache.ServiceConfig{
		Ttl:   viper.GetDuration("cache.metadataTtl"),
		Pfx:   keys.PfxMetadata,
		Cache: primitive.NewPrimitive("metadata", viper.GetInt("cache.metadataSizeMB")),
	})
	metadataUsecase := metadata_usecase.NewMetadataUseCase(&metadata_usecase.MetadataUseCaseCfg{
		WebResource: webResource,
		Cache:       metadataCache,
	})

	// the ledger either lives in this process or wraps the deployed contract
	var reader ledger.Reader
	var marketplace ledger.Ledger
	var settlement paytoken.Settlement
	marketAddress := domain.Address(viper.GetString("ledger.marketAddress"))
	switch mode := viper.GetString("ledger.mode"); mode {
	case "chain":
		chainId := viper.GetInt32("ledger.chainId")
		contractAddress := domain.Address(viper.GetString("ledger.contractAddress"))
		reader = contract.NewMusicNft(chainService, chainId, contractAddress)
	case "embedded":
		balances := make(map[domain.Address]*big.Int)
		for addr, amount := range viper.GetStringMapString("stablecoin.balances") {
			units, err := usdc.ToUnits(amount)
			if err != nil {
				context.WithField("addr", addr).WithField("amount", amount).Panic("invalid stablecoin balance")
			}
			balances[domain.Address(addr)] = units
		}
		settlement = stablecoin.New(&stablecoin.Cfg{
			Name:            viper.GetString("stablecoin.name"),
			Symbol:          viper.GetString("stablecoin.symbol"),
			Decimals:        viper.GetInt("stablecoin.decimals"),
			InitialBalances: balances,
		})
		mintFee, ok := new(big.Int).SetString(viper.GetString("ledger.mintFeeWei"), 10)
		if !ok {
			context.WithField("mintFeeWei", viper.GetString("ledger.mintFeeWei")).Panic("invalid mint fee")
		}
		marketplace = ledger_usecase.New(&ledger_usecase.LedgerCfg{
			Address:    marketAddress,
			MintFee:    mintFee,
			Settlement: settlement,
		})
		reader = marketplace
	default:
		context.WithField("mode", mode).Panic("unknown ledger mode")
	}

	// construct repository, usecase and delivery
	hcRepo := hc_repo.New(mongoClient)
	songRepo := song_repository.NewSongRepo(q)

	hc := hc_usecase.New(hcRepo)
	file := file_usecase.New(pinataService)
	songUsecase := song_usecase.NewSongUseCase(&song_usecase.SongUseCaseCfg{
		SongRepo: songRepo,
		Ledger:   reader,
		Metadata: metadataUsecase,
	})
	if marketplace != nil {
		marketplace.Subscribe(song_usecase.NewProjector(songUsecase, songRepo))
	}

	hc_delivery.New(e, hc)
	song_delivery.New(e, songUsecase)
	file_delivery.New(e, file)
	if marketplace != nil {
		ledger_delivery.New(e, marketplace)
		paytoken_delivery.New(e, settlement, marketAddress)
	}

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
