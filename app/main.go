package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	mysqlRepo "github.com/Guyuepp/Go-Clean-Architecture-Feed/internal/repository/mysql"
	profileCache "github.com/Guyuepp/Go-Clean-Architecture-Feed/internal/repository/cache"
	myRedisCache "github.com/Guyuepp/Go-Clean-Architecture-Feed/internal/repository/redis"
	"github.com/Guyuepp/Go-Clean-Architecture-Feed/internal/workers"

	"github.com/Guyuepp/Go-Clean-Architecture-Feed/internal/rest"
	"github.com/Guyuepp/Go-Clean-Architecture-Feed/internal/rest/middleware"
	"github.com/Guyuepp/Go-Clean-Architecture-Feed/internal/usecase/feed"
	"github.com/Guyuepp/Go-Clean-Architecture-Feed/internal/usecase/follow"
	"github.com/Guyuepp/Go-Clean-Architecture-Feed/internal/usecase/post"
	"github.com/Guyuepp/Go-Clean-Architecture-Feed/internal/usecase/user"
)

const (
	defaultTimeout       = 30
	defaultAddress       = ":9090"
	defaultCacheDB       = 0
	defaultBloomBitSize  = 10000000
	defaultFeedTTLMin    = 60
	defaultProfileTTLSec = 300
	dbMaxRetry           = 10
	dbRetryIntervalSec   = 2
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}
}

func main() {
	//prepare database
	dbHost := os.Getenv("DATABASE_HOST")
	dbPort := os.Getenv("DATABASE_PORT")
	dbUser := os.Getenv("DATABASE_USER")
	dbPass := os.Getenv("DATABASE_PASS")
	dbName := os.Getenv("DATABASE_NAME")
	connection := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", dbUser, dbPass, dbHost, dbPort, dbName)
	val := url.Values{}
	val.Add("parseTime", "1")
	val.Add("loc", "Asia/Jakarta")
	dsn := fmt.Sprintf("%s?%s", connection, val.Encode())

	var (
		db  *gorm.DB
		err error
	)

	for i := 0; i < dbMaxRetry; i++ {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Printf("failed to open connection to database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
		} else {
			sqlDB, err := db.DB()
			if err != nil {
				log.Printf("failed to get sql.DB from gorm.DB (attempt %d/%d): %v", i+1, dbMaxRetry, err)
				continue
			}
			err = sqlDB.Ping()
			if err == nil {
				break
			}
			log.Printf("failed to ping database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
			_ = sqlDB.Close()
		}

		time.Sleep(dbRetryIntervalSec * time.Second)
	}

	if err != nil {
		log.Fatal("could not connect to database after retries:", err)
	}

	defer func() {
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal("got error when getting sql.DB from gorm.DB", err)
		}
		if err := sqlDB.Close(); err != nil {
			log.Fatal("got error when closing the DB connection", err)
		}
	}()

	// prepare cache
	cacheHost := os.Getenv("CACHE_HOST")
	cachePort := os.Getenv("CACHE_PORT")
	cachePass := os.Getenv("CACHE_PASS")
	cacheDBStr := os.Getenv("CACHE_DB")
	cacheDB, err := strconv.Atoi(cacheDBStr)
	if err != nil {
		log.Println("failed to parse cacheDB, using default cacheDB")
		cacheDB = defaultCacheDB
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cacheHost + ":" + cachePort,
		Password: cachePass,
		DB:       cacheDB,
	})
	defer func() {
		err = client.Close()
		if err != nil {
			log.Fatal("got error when closing the cache connection", err)
		}
	}()

	_, err = client.Ping(context.Background()).Result()
	if err != nil {
		log.Fatal("failed to open connection to cache", err)
		return
	}

	// prepare gin
	route := gin.Default()
	route.Use(middleware.CORS())
	timeoutStr := os.Getenv("CONTEXT_TIMEOUT")
	timeout, err := strconv.Atoi(timeoutStr)
	if err != nil {
		log.Println("failed to parse timeout, using default timeout")
		timeout = defaultTimeout
	}
	timeoutContext := time.Duration(timeout) * time.Second
	route.Use(middleware.SetRequestContextWithTimeout(timeoutContext))

	// Prepare Repository
	userRepo := mysqlRepo.NewUserRepository(db)
	postRepo := mysqlRepo.NewPostRepository(db)
	followRepo := mysqlRepo.NewFollowRepository(db)

	feedTTLMin, err := strconv.Atoi(os.Getenv("FEED_CACHE_TTL_MINUTES"))
	if err != nil {
		log.Println("failed to parse feed cache TTL, using default 1 hour")
		feedTTLMin = defaultFeedTTLMin
	}
	feedCache := myRedisCache.NewFeedCache(client, time.Duration(feedTTLMin)*time.Minute)

	profileTTLSec, err := strconv.Atoi(os.Getenv("PROFILE_CACHE_TTL_SECONDS"))
	if err != nil {
		log.Println("failed to parse profile cache TTL, using default 5 minutes")
		profileTTLSec = defaultProfileTTLSec
	}
	profiles := profileCache.NewProfileCache(time.Duration(profileTTLSec) * time.Second)

	bloomBitSizeStr := os.Getenv("BLOOM_FILTER_SIZE")
	bloomBitSize, err := strconv.ParseUint(bloomBitSizeStr, 10, 64)
	if err != nil {
		log.Printf("failed to parse bloom bit size, using default size")
		bloomBitSize = defaultBloomBitSize
	}
	bloomRepo := myRedisCache.NewUserBloomFilter(client, bloomBitSize)

	// Start worker
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	invalidator := workers.NewInvalidateFeedsWorker(feedCache)
	go invalidator.Start(ctx)

	// Build service Layer
	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	jwtTTLStr := os.Getenv("JWT_EXPIRE_HOURS")
	jwtTTL, err := strconv.Atoi(jwtTTLStr)
	if err != nil {
		log.Println("failed to parse JWT TTL, using default 24 hours")
		jwtTTL = 24
	}
	feedSvc := feed.NewService(feedCache, postRepo, userRepo, followRepo, profiles, bloomRepo, invalidator)
	userSvc := user.NewService(userRepo, bloomRepo, jwtSecret, time.Duration(jwtTTL)*time.Hour)
	postSvc := post.NewService(postRepo, feedSvc)
	followSvc := follow.NewService(followRepo, feedSvc)
	feedHandler := rest.NewFeedHandler(feedSvc)
	userHandler := rest.NewUserHandler(userSvc)
	postHandler := rest.NewPostHandler(postSvc)
	followHandler := rest.NewFollowHandler(followSvc)

	authMiddleware := middleware.AuthMiddleware(string(jwtSecret))

	// Prepare bloom filter
	if err := userSvc.InitBloomFilter(ctx); err != nil {
		log.Printf("failed to init bloom filter: %v\n", err)
		return
	}

	// Register routes
	route.POST("/register", userHandler.Register)
	route.POST("/login", userHandler.Login)

	route.GET("/users/:id", userHandler.GetByID)
	route.GET("/users/:id/followers", followHandler.Followers)
	route.GET("/users/:id/following", followHandler.Following)

	route.GET("/posts/:id", postHandler.GetByID)

	route.GET("/trending", feedHandler.GetTrending)
	route.GET("/recent", feedHandler.GetRecent)

	authorized := route.Group("/")
	authorized.Use(authMiddleware)
	{
		authorized.GET("/feed", feedHandler.GetFeed)
		authorized.GET("/timeline", feedHandler.GetTimeline)
		authorized.POST("/feed/refresh", feedHandler.Refresh)
		authorized.POST("/posts", postHandler.Store)
		authorized.DELETE("/posts/:id", postHandler.Delete)
		authorized.POST("/users/:id/follow", followHandler.Follow)
		authorized.DELETE("/users/:id/follow", followHandler.Unfollow)
	}

	// Start Server
	address := os.Getenv("SERVER_ADDRESS")
	if address == "" {
		address = defaultAddress
	}
	srv := &http.Server{
		Addr:    address,
		Handler: route,
	}
	go func() {
		log.Printf("Server is running on %s\n", address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err) // nolint
		}
	}()

	// shutdown
	<-ctx.Done()
	log.Println("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Waiting for worker to cleanup...")
	time.Sleep(2 * time.Second)

	log.Println("Server exiting")
}
