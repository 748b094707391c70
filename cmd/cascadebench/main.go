package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/photoshare/config"
	"github.com/d60-Lab/photoshare/internal/model"
	"github.com/d60-Lab/photoshare/internal/repository"
	"github.com/d60-Lab/photoshare/internal/snapshot"
	"github.com/d60-Lab/photoshare/pkg/cache"
	"github.com/d60-Lab/photoshare/pkg/database"
	"github.com/d60-Lab/photoshare/pkg/logger"
	"github.com/d60-Lab/photoshare/pkg/telemetry"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

// timed runs fn over [0,n) with conc workers and returns per-call latency.
func timed(n, conc int, fn func(i int) error) ([]time.Duration, int) {
	if conc > n {
		conc = n
	}
	feed := make(chan int, n)
	for i := 0; i < n; i++ {
		feed <- i
	}
	close(feed)

	var (
		mu     sync.Mutex
		recs   = make([]time.Duration, 0, n)
		failed int
		wg     sync.WaitGroup
	)
	for w := 0; w < conc; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range feed {
				st := time.Now()
				err := fn(i)
				d := time.Since(st)
				mu.Lock()
				recs = append(recs, d)
				if err != nil {
					failed++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return recs, failed
}

func report(name string, recs []time.Duration, total time.Duration) {
	if len(recs) == 0 {
		return
	}
	fmt.Printf("%-16s n=%d total=%v per op=%v p50=%v p95=%v p99=%v\n",
		name, len(recs), total, total/time.Duration(len(recs)), pct(recs, 0.50), pct(recs, 0.95), pct(recs, 0.99))
}

// seedCheck aborts the run when a seeding phase had failures; later phases
// would otherwise target rows that were never created.
func seedCheck(phase string, failed int) {
	if failed > 0 {
		logger.Error("seeding failed", zap.String("phase", phase), zap.Int("failed", failed))
		os.Exit(1)
	}
}

func main() {
	cfg := must(config.Load())
	if err := logger.Init(cfg.IsProd(), cfg.Log.Level); err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx := context.Background()
	shutdown := must(telemetry.Setup(ctx, cfg))
	defer shutdown(context.Background())

	db := must(database.InitDB(cfg))
	defer database.Close(db)
	if !cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			panic(err)
		}
	}

	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	comments := repository.NewCommentRepository(db)
	likes := repository.NewLikeRepository(db)

	var store *snapshot.Store
	if client, err := cache.InitRedis(ctx, cfg); err != nil {
		logger.Warn("redis unavailable, snapshot phase skipped", zap.Error(err))
	} else {
		defer client.Close()
		store = snapshot.NewStore(users, posts, client, cfg.Redis.TTL)
	}

	N := envInt("N", 1000)
	POSTS := envInt("POSTS", 3)
	CONC := envInt("CONC", 4)
	run := time.Now().UnixNano()

	// seed users
	seeded := make([]*model.User, N)
	t0 := time.Now()
	userRecs, failed := timed(N, CONC, func(i int) error {
		u := &model.User{
			Username: fmt.Sprintf("u%d_%d", run%1e6, i),
			Email:    fmt.Sprintf("u%d_%d@example.com", run%1e6, i),
			Password: "p",
		}
		seeded[i] = u
		return users.Create(ctx, u)
	})
	report("create user", userRecs, time.Since(t0))
	seedCheck("user", failed)

	// seed posts: POSTS per user
	authored := make([]*model.Post, N*POSTS)
	t1 := time.Now()
	postRecs, failed := timed(N*POSTS, CONC, func(i int) error {
		p := &model.Post{AuthorID: seeded[i/POSTS].ID, ImageURL: fmt.Sprintf("https://img.example.com/%d.png", i)}
		authored[i] = p
		return posts.Create(ctx, p)
	})
	report("create post", postRecs, time.Since(t1))
	seedCheck("post", failed)

	// each user likes and comments on the next user's first post
	t2 := time.Now()
	likeRecs, failed := timed(N, CONC, func(i int) error {
		target := authored[((i+1)%N)*POSTS]
		return likes.Create(ctx, &model.Like{UserID: seeded[i].ID, PostID: target.ID})
	})
	report("create like", likeRecs, time.Since(t2))
	seedCheck("like", failed)

	t3 := time.Now()
	commentRecs, failed := timed(N, CONC, func(i int) error {
		target := authored[((i+1)%N)*POSTS]
		return comments.Create(ctx, &model.Comment{AuthorID: seeded[i].ID, PostID: target.ID, Body: "nice"})
	})
	report("create comment", commentRecs, time.Since(t3))
	seedCheck("comment", failed)

	// duplicates must all be rejected by uq_user_post_like
	var rejected, unexpected int
	var dmu sync.Mutex
	t4 := time.Now()
	dupRecs, _ := timed(N, CONC, func(i int) error {
		target := authored[((i+1)%N)*POSTS]
		err := likes.Create(ctx, &model.Like{UserID: seeded[i].ID, PostID: target.ID})
		dmu.Lock()
		defer dmu.Unlock()
		if errors.Is(err, repository.ErrUniqueViolation) {
			rejected++
		} else {
			unexpected++
		}
		return err
	})
	report("duplicate like", dupRecs, time.Since(t4))
	fmt.Printf("duplicate likes rejected=%d unexpected=%d\n", rejected, unexpected)

	userIDs := make([]int64, len(seeded))
	for i, u := range seeded {
		userIDs[i] = u.ID
	}
	ids := make([]int64, len(authored))
	for i, p := range authored {
		ids[i] = p.ID
	}

	// warm snapshots twice: first pass loads from the database, second should hit
	deleteUser := users.Delete
	if store != nil {
		deleteUser = store.DeleteUser
		for pass := 0; pass < 2; pass++ {
			t5 := time.Now()
			warmRecs, failed := timed(N, CONC, func(i int) error {
				if _, err := store.User(ctx, seeded[i].ID); err != nil {
					return err
				}
				for _, p := range authored[i*POSTS : (i+1)*POSTS] {
					if _, err := store.Post(ctx, p.ID); err != nil {
						return err
					}
				}
				return nil
			})
			report(fmt.Sprintf("snapshot pass %d", pass+1), warmRecs, time.Since(t5))
			seedCheck("snapshot", failed)
		}
		c := store.Counters()
		fmt.Printf("snapshot: hits=%d misses=%d\n", c.Hits, c.Misses)
	}

	// cascade delete every seeded user
	t6 := time.Now()
	delRecs, delFailed := timed(N, CONC, func(i int) error { return deleteUser(ctx, seeded[i].ID) })
	report("delete user", delRecs, time.Since(t6))

	var left int64
	for _, m := range []any{&model.Comment{}, &model.Like{}} {
		var cnt int64
		if err := db.Model(m).Where("post_id IN ?", ids).Count(&cnt).Error; err != nil {
			panic(err)
		}
		left += cnt
	}
	var postsLeft int64
	if err := db.Model(&model.Post{}).Where("id IN ?", ids).Count(&postsLeft).Error; err != nil {
		panic(err)
	}
	fmt.Printf("cascade: delete failures=%d, posts left=%d, comments+likes left=%d\n", delFailed, postsLeft, left)

	var keysLeft int64
	if store != nil {
		keysLeft = must(store.Resident(ctx, userIDs, ids))
		fmt.Printf("snapshot: keys left=%d\n", keysLeft)
	}
	if unexpected > 0 || delFailed > 0 || postsLeft > 0 || left > 0 || keysLeft > 0 {
		os.Exit(1)
	}
}
