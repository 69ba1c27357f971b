package main

import (
	"encoding/json"
	"errors"
	"log"
	"os"

	"VidTube/internal/repository"
	"VidTube/internal/service"
	"VidTube/pkg/logger"
	"VidTube/pkg/rabbitmq"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/streadway/amqp"
	gorm_mysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// 消费者进程：把观看事件从RabbitMQ搬进MySQL。
// 播放量UPDATE是幂等累加，历史写入撞唯一键按重复消费处理。
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf(".env文件加载失败，使用环境变量")
	}
	logger.InitLogger()

	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(127.0.0.1:3306)/vidtube?charset=utf8mb4&parseTime=True&loc=Local"
	}
	db, err := gorm.Open(gorm_mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到数据库: %v", err)
	}

	rabbitMQConn, err := rabbitmq.InitRabbitMQ()
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到RabbitMQ: %v", err)
	}
	defer rabbitMQConn.Close()

	consumeViews(rabbitMQConn, db)
}

// 观看事件消费者：1、建channel并声明队列 2、注册消费者 3、逐条处理，
// 每条消息在一个事务里完成"播放量+1 & 写观看历史"
func consumeViews(conn *amqp.Connection, db *gorm.DB) {
	ch, err := conn.Channel()
	if err != nil {
		logger.Log.Fatalf("无法打开Channel: %v", err)
	}
	defer ch.Close()

	// 队列声明是幂等的，消费者先起也不怕
	if _, err := ch.QueueDeclare(service.QueueVideoViews, true, false, false, false, nil); err != nil {
		logger.Log.Fatalf("无法声明队列: %v", err)
	}

	msgs, err := ch.Consume(
		service.QueueVideoViews, // queue
		"",                      // consumer
		false,                   // auto-ack: 手动确认，处理成功才Ack
		false,                   // exclusive
		false,                   // no-local
		false,                   // no-wait
		nil,                     // args
	)
	if err != nil {
		logger.Log.Fatalf("无法注册观看事件消费者: %v", err)
	}

	forever := make(chan bool)

	go func() {
		// msgs是通道，队列空了会阻塞而不是退出循环
		for d := range msgs {
			logCtx := logger.Log.WithField("redelivered", d.Redelivered)
			var msg service.ViewMessage
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				logCtx.WithError(err).Error("观看事件JSON解析失败")
				// 解析不了的坏消息，重试也没用，直接丢弃
				d.Nack(false, false)
				continue
			}
			logCtx = logCtx.WithField("video_id", msg.VideoID).WithField("viewer_id", msg.ViewerID)

			err := db.Transaction(func(tx *gorm.DB) error {
				txVideoRepo := repository.NewVideoRepository(tx, nil)
				txHistoryRepo := repository.NewHistoryRepository(tx)
				txService := service.NewHistoryService(txHistoryRepo, txVideoRepo, nil)
				return txService.RecordView(msg)
			})
			if err != nil {
				var mysqlErr *mysql.MySQLError
				// 错误号1062是"Duplicate entry"，说明是一次重复消费，按成功确认
				if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
					logCtx.WithError(err).Warn("观看事件重复消费，按成功处理")
					d.Ack(false)
				} else {
					logCtx.WithError(err).Error("观看事件处理失败，将进行重试")
					d.Nack(false, true)
				}
			} else {
				d.Ack(false)
			}
		}
	}()
	logger.Log.Info(" [*] 等待观看事件中. 按 CTRL+C 退出")
	<-forever
}
